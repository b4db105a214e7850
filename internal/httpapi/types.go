package httpapi

// Request bodies. Pointer fields are required.

type filterReq struct {
	AboveThresholdOnly *bool `json:"above_threshold_only"`
}

type sortReq struct {
	SortBy string `json:"sort_by"`
}

type pageReq struct {
	Page *int `json:"page"`
}

type tokenReq struct {
	Token string `json:"token"`
}
