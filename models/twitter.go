package models

// TwitterMediaResponse is the subset of the media upload reply we rely on
type TwitterMediaResponse struct {
	MediaID       int64  `json:"media_id"`
	MediaIDString string `json:"media_id_string"`
}

// TwitterStatusRequest is the body of the status update call
type TwitterStatusRequest struct {
	Status   string `json:"status"`
	MediaIDs string `json:"media_ids"`
}

// TwitterErrorResponse is the error envelope returned by the Twitter API
type TwitterErrorResponse struct {
	Errors []struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
	Detail string `json:"detail"`
	Title  string `json:"title"`
}
