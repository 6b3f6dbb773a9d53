// File: internal/browser/frames.go
package browser

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// SwitchToIFrame enters the index-th frame of the current browsing context.
func (s *Session) SwitchToIFrame(ctx context.Context, index int) error {
	if err := s.ready("SwitchToIFrame"); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.wd.SwitchFrame(index); err != nil {
		return fmt.Errorf("failed to switch to frame %d: %w", index, err)
	}
	s.frames = append(s.frames, index)
	s.logger.Debug("Entered frame.", zap.Ints("frame_path", s.frames))
	return nil
}

// SwitchToParentFrame returns to the parent of the current browsing context.
// At the top-level document it does nothing. The driver protocol here has no
// parent-frame command, so the path is replayed from the top.
func (s *Session) SwitchToParentFrame(ctx context.Context) error {
	if err := s.ready("SwitchToParentFrame"); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(s.frames) == 0 {
		return nil
	}

	parent := append([]int(nil), s.frames[:len(s.frames)-1]...)
	if err := s.wd.SwitchFrame(nil); err != nil {
		return fmt.Errorf("failed to switch to top-level document: %w", err)
	}
	s.frames = s.frames[:0]
	for _, idx := range parent {
		if err := s.wd.SwitchFrame(idx); err != nil {
			return fmt.Errorf("failed to re-enter frame %d: %w", idx, err)
		}
		s.frames = append(s.frames, idx)
	}
	s.logger.Debug("Returned to parent frame.", zap.Ints("frame_path", s.frames))
	return nil
}

// DismissAlert cancels the open native dialog.
func (s *Session) DismissAlert(ctx context.Context) error {
	if err := s.ready("DismissAlert"); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.wd.DismissAlert(); err != nil {
		if isNoAlert(err) {
			return fmt.Errorf("%w: %w", ErrNoAlertPresent, err)
		}
		return fmt.Errorf("failed to dismiss alert: %w", err)
	}
	return nil
}
