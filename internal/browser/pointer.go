// File: internal/browser/pointer.go
package browser

import (
	"github.com/tebeka/selenium"
	"go.uber.org/zap"
)

// gesture names double as the DOM event that completes them.
type gesture string

const (
	gestureHover        gesture = "mouseover"
	gestureDoubleClick  gesture = "dblclick"
	gestureContextClick gesture = "contextmenu"
)

// pointerEventScript replays a pointer gesture as the DOM events a real
// pointer would produce, centred on arguments[0].
const pointerEventScript = `
var el = arguments[0], kind = arguments[1];
el.scrollIntoView({block: 'center', inline: 'center'});
var r = el.getBoundingClientRect();
var base = {bubbles: true, cancelable: true, view: window,
            clientX: r.left + r.width / 2, clientY: r.top + r.height / 2};
var sequences = {
  mouseover: [['mouseover', 0], ['mouseenter', 0], ['mousemove', 0]],
  dblclick: [['mouseover', 0], ['mousemove', 0],
             ['mousedown', 0], ['mouseup', 0], ['click', 0],
             ['mousedown', 0], ['mouseup', 0], ['click', 0], ['dblclick', 0]],
  contextmenu: [['mouseover', 0], ['mousemove', 0],
                ['mousedown', 2], ['mouseup', 2], ['contextmenu', 2]]
};
var seq = sequences[kind];
if (!seq) { throw new Error('unknown gesture ' + kind); }
for (var i = 0; i < seq.length; i++) {
  var init = Object.assign({}, base, {button: seq[i][1], buttons: seq[i][1] === 2 ? 2 : 1,
                                      detail: seq[i][0] === 'dblclick' ? 2 : 1});
  el.dispatchEvent(new MouseEvent(seq[i][0], init));
}
return true;
`

// gesture performs g on elem. The legacy pointer commands are tried first; once
// the driver rejects them the session dispatches DOM events for the rest of
// its life.
func (s *Session) gesture(g gesture, elem selenium.WebElement) error {
	if !s.scriptedPointer {
		err := s.nativeGesture(g, elem)
		if err == nil || !isUnknownCommand(err) {
			return err
		}
		s.logger.Debug("Driver has no legacy pointer commands; dispatching DOM events.", zap.Error(err))
		s.scriptedPointer = true
	}
	_, err := s.wd.ExecuteScript(pointerEventScript, []interface{}{elem, string(g)})
	return err
}

func (s *Session) nativeGesture(g gesture, elem selenium.WebElement) error {
	if err := elem.MoveTo(0, 0); err != nil {
		return err
	}
	switch g {
	case gestureDoubleClick:
		return s.wd.DoubleClick()
	case gestureContextClick:
		return s.wd.Click(selenium.RightButton)
	}
	return nil
}
