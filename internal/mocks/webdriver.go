// File: internal/mocks/webdriver.go
package mocks

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/tebeka/selenium"
)

// Driver errors shaped the way a W3C remote end reports them.
func noSuchElement(locator string) error {
	return &selenium.Error{Err: "no such element", Message: "unable to locate " + locator, HTTPCode: 404, LegacyCode: 7}
}

func noSuchFrame(frame interface{}) error {
	return &selenium.Error{Err: "no such frame", Message: fmt.Sprintf("frame %v", frame), HTTPCode: 404, LegacyCode: 8}
}

func unknownCommand(endpoint string) error {
	return &selenium.Error{Err: "unknown command", Message: "unknown command: " + endpoint, HTTPCode: 404, LegacyCode: 9}
}

func noSuchAlert() error {
	return &selenium.Error{Err: "no such alert", Message: "no such alert", HTTPCode: 404, LegacyCode: 27}
}

// FakeDocument is one browsing context: a page or a frame inside one.
type FakeDocument struct {
	Title string
	// Elements are keyed by the exact XPath the code under test will use.
	Elements map[string]*FakeElement
	Frames   []*FakeDocument
	// Alert opens a native dialog when the page loads.
	Alert bool
}

// FakeWebDriver is an in-memory selenium.WebDriver. Methods not overridden
// here panic through the nil embedded interface, which flags unexpected calls.
type FakeWebDriver struct {
	selenium.WebDriver

	mu sync.Mutex

	// Pages maps URLs to documents. Get on an unknown URL fails like an
	// unreachable host.
	Pages map[string]*FakeDocument

	QuitErr         error
	TimeoutErr      error
	QuitCalls       int
	DismissCalls    int
	FindCalls       int
	ImplicitWait    time.Duration
	PageLoadTimeout time.Duration
	AlertOpen       bool

	// W3C makes the driver reject the legacy JSON wire pointer endpoints
	// (/moveto, /click, /doubleclick) the way geckodriver and safaridriver do.
	W3C bool
	// LegacyCalls counts legacy pointer commands the driver received.
	LegacyCalls int
	// Scripts counts ExecuteScript calls.
	Scripts int

	url     string
	frames  []*FakeDocument
	hovered *FakeElement
}

// NewFakeWebDriver returns a driver that knows the given pages.
func NewFakeWebDriver(pages map[string]*FakeDocument) *FakeWebDriver {
	if pages == nil {
		pages = map[string]*FakeDocument{}
	}
	return &FakeWebDriver{Pages: pages}
}

// active is the document the next lookup runs against.
func (f *FakeWebDriver) active() *FakeDocument {
	if n := len(f.frames); n > 0 {
		return f.frames[n-1]
	}
	return f.Pages[f.url]
}

// Hovered returns the element the pointer was last moved to.
func (f *FakeWebDriver) Hovered() *FakeElement {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hovered
}

// FrameDepth is how many frames deep the active context is.
func (f *FakeWebDriver) FrameDepth() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.frames)
}

func (f *FakeWebDriver) Get(url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.Pages[url]
	if !ok {
		return &selenium.Error{Err: "unknown error", Message: "net::ERR_NAME_NOT_RESOLVED", HTTPCode: 500, LegacyCode: 13}
	}
	f.url = url
	f.frames = nil
	f.hovered = nil
	f.AlertOpen = doc.Alert
	for _, el := range doc.Elements {
		el.attach(f)
	}
	return nil
}

func (f *FakeWebDriver) CurrentURL() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.url, nil
}

func (f *FakeWebDriver) Title() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if doc := f.Pages[f.url]; doc != nil {
		return doc.Title, nil
	}
	return "", nil
}

func (f *FakeWebDriver) FindElement(by, value string) (selenium.WebElement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.FindCalls++
	if by != selenium.ByXPATH {
		return nil, &selenium.Error{Err: "invalid argument", Message: "unsupported strategy " + by, HTTPCode: 400}
	}
	doc := f.active()
	if doc == nil {
		return nil, noSuchElement(value)
	}
	el, ok := doc.Elements[value]
	if !ok || !el.present() {
		return nil, noSuchElement(value)
	}
	el.attach(f)
	return el, nil
}

func (f *FakeWebDriver) SwitchFrame(frame interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch v := frame.(type) {
	case nil:
		f.frames = nil
		return nil
	case int:
		doc := f.active()
		if doc == nil || v < 0 || v >= len(doc.Frames) {
			return noSuchFrame(frame)
		}
		child := doc.Frames[v]
		for _, el := range child.Elements {
			el.attach(f)
		}
		f.frames = append(f.frames, child)
		return nil
	}
	return noSuchFrame(frame)
}

func (f *FakeWebDriver) DismissAlert() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.AlertOpen {
		return noSuchAlert()
	}
	f.AlertOpen = false
	f.DismissCalls++
	return nil
}

func (f *FakeWebDriver) Click(button int) error {
	f.mu.Lock()
	f.LegacyCalls++
	target := f.hovered
	w3c := f.W3C
	f.mu.Unlock()
	if w3c {
		return unknownCommand("POST /session/click")
	}
	if target == nil {
		return errors.New("pointer is not over an element")
	}
	if button == selenium.RightButton {
		target.RightClicks++
		return nil
	}
	return target.Click()
}

func (f *FakeWebDriver) DoubleClick() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LegacyCalls++
	if f.W3C {
		return unknownCommand("POST /session/doubleclick")
	}
	if f.hovered == nil {
		return errors.New("pointer is not over an element")
	}
	f.hovered.DoubleClicks++
	return nil
}

// ExecuteScript understands the pointer event script: arguments[0] is the
// target element, arguments[1] the DOM event that completes the gesture.
func (f *FakeWebDriver) ExecuteScript(script string, args []interface{}) (interface{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Scripts++
	if len(args) != 2 {
		return nil, &selenium.Error{Err: "javascript error", Message: "unexpected script arguments", HTTPCode: 500, LegacyCode: 17}
	}
	el, ok := args[0].(*FakeElement)
	if !ok {
		return nil, &selenium.Error{Err: "javascript error", Message: "arguments[0] is not an element", HTTPCode: 500, LegacyCode: 17}
	}
	kind, _ := args[1].(string)
	switch kind {
	case "mouseover":
		el.Hovers++
	case "dblclick":
		el.DoubleClicks++
	case "contextmenu":
		el.RightClicks++
	default:
		return nil, &selenium.Error{Err: "javascript error", Message: "unknown gesture " + kind, HTTPCode: 500, LegacyCode: 17}
	}
	f.hovered = el
	return true, nil
}

func (f *FakeWebDriver) SetImplicitWaitTimeout(d time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.TimeoutErr != nil {
		return f.TimeoutErr
	}
	f.ImplicitWait = d
	return nil
}

func (f *FakeWebDriver) SetPageLoadTimeout(d time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.TimeoutErr != nil {
		return f.TimeoutErr
	}
	f.PageLoadTimeout = d
	return nil
}

func (f *FakeWebDriver) Quit() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.QuitCalls++
	return f.QuitErr
}

// FakeElement is an in-memory selenium.WebElement.
type FakeElement struct {
	selenium.WebElement

	Tag     string
	Content string
	// Value is what typing has put into the element.
	Value    string
	Attrs    map[string]string
	Hidden   bool
	Disabled bool
	Selected bool
	Multiple bool
	// AppearsAt keeps the element out of the document until the given time.
	AppearsAt time.Time
	// VisibleAt keeps a present element hidden until the given time.
	VisibleAt time.Time
	Options   []*FakeElement

	Clicks       int
	DoubleClicks int
	RightClicks  int
	Hovers       int

	driver *FakeWebDriver
	parent *FakeElement
}

// Option builds an <option> child.
func Option(value, text string) *FakeElement {
	return &FakeElement{Tag: "option", Content: text, Attrs: map[string]string{"value": value}}
}

// Select builds a <select> holding opts.
func Select(opts ...*FakeElement) *FakeElement {
	el := &FakeElement{Tag: "select", Options: opts}
	for _, o := range opts {
		o.parent = el
	}
	return el
}

func (e *FakeElement) attach(f *FakeWebDriver) {
	e.driver = f
}

func (e *FakeElement) present() bool {
	return e.AppearsAt.IsZero() || !time.Now().Before(e.AppearsAt)
}

func (e *FakeElement) displayed() bool {
	if !e.VisibleAt.IsZero() {
		return !time.Now().Before(e.VisibleAt)
	}
	return !e.Hidden
}

func (e *FakeElement) isInput() bool {
	return e.Tag == "input" || e.Tag == "textarea"
}

func (e *FakeElement) Click() error {
	if !e.displayed() {
		return &selenium.Error{Err: "element not interactable", HTTPCode: 400, LegacyCode: 11}
	}
	e.Clicks++
	if e.Tag == "option" {
		if e.parent != nil && !e.parent.Multiple {
			for _, sib := range e.parent.Options {
				sib.Selected = false
			}
			e.Selected = true
		} else {
			e.Selected = !e.Selected
		}
	}
	return nil
}

func (e *FakeElement) SendKeys(keys string) error {
	if e.Disabled {
		return &selenium.Error{Err: "element not interactable", HTTPCode: 400, LegacyCode: 11}
	}
	e.Value += keys
	return nil
}

func (e *FakeElement) Clear() error {
	e.Value = ""
	return nil
}

func (e *FakeElement) MoveTo(_, _ int) error {
	if e.driver != nil {
		e.driver.mu.Lock()
		defer e.driver.mu.Unlock()
		e.driver.LegacyCalls++
		if e.driver.W3C {
			return unknownCommand("POST /session/moveto")
		}
		e.driver.hovered = e
	}
	e.Hovers++
	return nil
}

func (e *FakeElement) FindElements(by, value string) ([]selenium.WebElement, error) {
	if by != selenium.ByXPATH || value != ".//option" {
		return nil, &selenium.Error{Err: "invalid selector", Message: value, HTTPCode: 400, LegacyCode: 32}
	}
	out := make([]selenium.WebElement, 0, len(e.Options))
	for _, o := range e.Options {
		o.parent = e
		out = append(out, o)
	}
	return out, nil
}

func (e *FakeElement) TagName() (string, error) {
	return e.Tag, nil
}

// Text mirrors rendered text: typed input shows up in editable cells but not
// in form fields.
func (e *FakeElement) Text() (string, error) {
	if !e.displayed() {
		return "", nil
	}
	if e.isInput() {
		return e.Content, nil
	}
	return e.Content + e.Value, nil
}

func (e *FakeElement) IsSelected() (bool, error) {
	return e.Selected, nil
}

func (e *FakeElement) IsEnabled() (bool, error) {
	return !e.Disabled, nil
}

func (e *FakeElement) IsDisplayed() (bool, error) {
	return e.displayed(), nil
}

func (e *FakeElement) GetAttribute(name string) (string, error) {
	if name == "value" && e.isInput() {
		return e.Value, nil
	}
	if v, ok := e.Attrs[name]; ok {
		return v, nil
	}
	if name == "value" && e.Tag == "option" {
		return strings.TrimSpace(e.Content), nil
	}
	return "", nil
}
