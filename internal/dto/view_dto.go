package dto

// View is the model every page handler renders. A template layer can
// consume it as is; without one it is written as JSON.
type View struct {
	Page        string              `json:"page"`
	Flashes     map[string][]string `json:"flashes"`
	CurrentUser *UserResponse       `json:"current_user"`
	Data        any                 `json:"data,omitempty"`
}

type ErrorView struct {
	Page        string        `json:"page"`
	Status      int           `json:"status"`
	Message     string        `json:"message"`
	CurrentUser *UserResponse `json:"current_user"`
}

type Availability struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}
