package models

type Search struct {
	ID         string   `json:"id"`
	Username   string   `json:"username"`
	Caption    string   `json:"caption"`
	Tags       []string `json:"tags"`
	ResultType string   `json:"result_type"`
}
