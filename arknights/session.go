package arknights

import "strconv"

// Session is one authenticated player identity against one region. UID and
// Secret stay empty until a login completes; Seqnum starts at 1 and is
// incremented immediately before every authenticated request.
//
// A Session is owned by the caller. The login flow fills it in by reference
// and does not retain it. The gameplay gateway rejects stale sequence numbers,
// so callers must not issue concurrent authenticated requests on one Session.
type Session struct {
	UID    string
	Secret string
	Seqnum int
}

// NewSession returns an empty session ready for login.
func NewSession() *Session {
	return &Session{Seqnum: 1}
}

func (s *Session) seqnumString() string {
	return strconv.Itoa(s.Seqnum)
}
