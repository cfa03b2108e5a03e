package models

type ResearchRequest struct {
	Messages []Message `json:"messages"`
}

type ResearchResponse struct {
	Response string `json:"response"`
}
