package astroController

import "github.com/admin/astro-api/internal/domain"

type DetectSignReq struct {
	Name      *string `json:"name"`
	Birthdate string  `json:"birthdate"`
}

type DetectSignResp struct {
	Sign domain.Sign `json:"sign"`
}

type HoroscopeReq struct {
	Sign  string `json:"sign"`
	Scope string `json:"scope"`
}

type ReadingsQuery struct {
	Sign  string `form:"sign"`
	Limit int    `form:"limit"`
}

type ReadingsResp struct {
	Items []*domain.Reading `json:"items"`
}

type SignResp struct {
	Sign  domain.Sign `json:"sign"`
	Start string      `json:"start"`
	End   string      `json:"end"`
}

type ErrorResp struct {
	Detail string `json:"detail"`
}
