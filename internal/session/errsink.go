package session

import "sync"

// ErrorSink holds at most one current user-visible error message. A new
// error replaces any prior one; dismissing clears it. Fetch failures never
// land here, only failed user actions do.
type ErrorSink struct {
	mu  sync.Mutex
	msg string
}

// Set replaces the current error message.
func (s *ErrorSink) Set(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msg = msg
}

// Clear dismisses the current error.
func (s *ErrorSink) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msg = ""
}

// Current returns the current error message, or "" if there is none.
func (s *ErrorSink) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.msg
}
