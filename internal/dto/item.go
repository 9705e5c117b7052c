package dto

// AddItemForm is the body of POST /add (urlencoded or multipart).
type AddItemForm struct {
	Title string `form:"title"`
}

type HealthResponse struct {
	OK  bool   `json:"ok"`
	Env string `json:"env"`
}

type VersionResponse struct {
	Version string `json:"version"`
}
