package http

// Request bodies decoded by the handlers. Profile and task PATCH bodies are
// decoded as map[string]any instead, so the service layer can reject unknown
// keys.

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Age      int64  `json:"age"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type createTaskRequest struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}
