package dtos

// WhitelistSubmissionReq is the application form body. The field names
// mirror the portal's form inputs; blank answers are accepted.
type WhitelistSubmissionReq struct {
	Resposta1 string `json:"resposta1"`
	Resposta2 string `json:"resposta2"`
	Resposta3 string `json:"resposta3"`
	Resposta4 string `json:"resposta4"`
	Resposta5 string `json:"resposta5"`
	Resposta6 string `json:"resposta6"`
}

// Answers returns the form answers in question order
func (r *WhitelistSubmissionReq) Answers() []string {
	return []string{r.Resposta1, r.Resposta2, r.Resposta3, r.Resposta4, r.Resposta5, r.Resposta6}
}
