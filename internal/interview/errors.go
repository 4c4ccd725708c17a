package interview

import "errors"

var (
	// ErrSessionNotFound is returned by the registry for unknown session ids.
	ErrSessionNotFound = errors.New("session not found")
	// ErrDuplicateSession is returned when creating a session whose id is in use.
	ErrDuplicateSession = errors.New("session id already in use")
	// ErrSessionClosed is returned by any operation on an ended session.
	ErrSessionClosed = errors.New("session closed")
	// ErrNoAudioReceived is returned when a recording finishes with an empty buffer.
	ErrNoAudioReceived = errors.New("no audio data received")
	// ErrInterviewComplete is returned when a question is requested past the limit.
	ErrInterviewComplete = errors.New("interview completed")
	// ErrNoQuestionDelivered is returned when an answer arrives before a question.
	ErrNoQuestionDelivered = errors.New("no question delivered for this answer")
)
