package gamedto

// SquareRef addresses a board position in request and response bodies.
type SquareRef struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type CreateRequest struct {
	Name string `json:"name"`
}

type JoinRequest struct {
	Name string `json:"name"`
}

type MoveRequest struct {
	From SquareRef `json:"from"`
	To   SquareRef `json:"to"`
}
