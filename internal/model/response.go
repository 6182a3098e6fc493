package model

// ErrorResponse - 모든 실패 응답. Fields 는 검증/충돌 실패 시 필드별 사유
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type PingResponse struct {
	Message string `json:"message"`
}

type RootResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type AuthMeResponse struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

type UserMutationResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Username string `json:"username"`
}

type UserEnvelope struct {
	Status string        `json:"status"`
	Data   *UserResponse `json:"data"`
}

type AvatarResponse struct {
	Status   string `json:"status"`
	ImageRef string `json:"imageRef"`
}
