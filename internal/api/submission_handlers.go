package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/andrevaleby/santamaria-backend/internal/auth"
	"github.com/andrevaleby/santamaria-backend/internal/common"
	"github.com/andrevaleby/santamaria-backend/internal/constants"
	"github.com/andrevaleby/santamaria-backend/internal/db/repositories"
	"github.com/andrevaleby/santamaria-backend/internal/models/dtos"
	"github.com/andrevaleby/santamaria-backend/internal/providers"
	"github.com/andrevaleby/santamaria-backend/internal/services"
)

// SubmitWhitelistHandler handles POST /api/whitelist
//
// @Summary      Submit whitelist form
// @Description  Accepts the six form answers, marks the user pending and publishes the review card.
// @Tags         Whitelist
// @Accept       json
// @Produce      json
// @Success      200  {object}  dtos.APIResponse
// @Failure      400  {object}  dtos.APIResponse
// @Failure      409  {object}  dtos.APIResponse
// @Failure      502  {object}  dtos.APIResponse
// @Router       /api/whitelist [post]
func SubmitWhitelistHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		identity, ok := auth.GetIdentity(r.Context())
		if !ok {
			common.RespondError(w, initTime, nil, "Não autenticado", http.StatusUnauthorized)
			return
		}

		var req dtos.WhitelistSubmissionReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.RespondError(w, initTime, err, "Formulário inválido", http.StatusBadRequest)
			return
		}

		result, err := deps.Services.Submission.Submit(r.Context(), identity, req.Answers())
		if err != nil {
			var provErr *providers.ProviderError
			switch {
			case errors.Is(err, services.ErrAlreadyPending):
				common.RespondError(w, initTime, err, "Você já possui uma whitelist em análise", http.StatusConflict)
			case errors.Is(err, services.ErrNotMember):
				common.RespondError(w, initTime, err, "Apenas membros do servidor podem enviar o formulário", http.StatusForbidden)
			case errors.Is(err, repositories.ErrUserNotFound):
				common.RespondError(w, initTime, err, "Usuário não encontrado", http.StatusInternalServerError)
			case errors.As(err, &provErr):
				common.RespondError(w, initTime, err, "Falha ao publicar o formulário", http.StatusBadGateway)
			default:
				common.RespondError(w, initTime, err, "Falha ao processar o formulário", http.StatusInternalServerError)
			}
			return
		}

		common.RespondSuccess(w, initTime, "Whitelist enviada para análise", result)
	}
}

// WhitelistStatusHandler handles GET /api/whitelist/status
//
// @Summary      Whitelist status
// @Description  Returns the review status of the authenticated user.
// @Tags         Whitelist
// @Produce      json
// @Success      200  {object}  dtos.APIResponse
// @Failure      401  {object}  dtos.APIResponse
// @Router       /api/whitelist/status [get]
func WhitelistStatusHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		identity, ok := auth.GetIdentity(r.Context())
		if !ok {
			common.RespondError(w, initTime, nil, "Não autenticado", http.StatusUnauthorized)
			return
		}

		status, err := deps.Services.Submission.Status(r.Context(), identity.DiscordID)
		if err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				common.RespondSuccess(w, initTime, "Nenhuma whitelist enviada", dtos.ReviewStatusResponse{ReviewStatus: string(constants.ReviewStatusNone)})
				return
			}
			common.RespondError(w, initTime, err, "Falha ao consultar o status", http.StatusInternalServerError)
			return
		}

		common.RespondSuccess(w, initTime, "Status da whitelist", dtos.ReviewStatusResponse{ReviewStatus: string(status)})
	}
}
