package gamedto

// DomainError is the API-boundary rejection shape. Retryable marks
// rejections the client may resolve by waiting (e.g. opponent's turn)
// as opposed to terminal ones (session full, not found).
type DomainError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

func (e DomainError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	return "game service error"
}

const (
	CodeNotFound    = "SESSION_NOT_FOUND"
	CodeSessionFull = "SESSION_FULL"
	CodeNotYourTurn = "NOT_YOUR_TURN"
	CodeIllegalMove = "ILLEGAL_MOVE"
	CodeBadRequest  = "BAD_REQUEST"
	CodeInternal    = "INTERNAL"
)
