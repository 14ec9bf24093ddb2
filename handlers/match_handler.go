package handlers

import (
	"net/http"

	"github.com/Dosada05/bracket-board/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(ms services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: ms}
}

// RecordWinner godoc
// @Summary Зафиксировать победителя матча
// @Tags matches
// @Description Победитель переходит в следующий раунд, сетка перестраивается и рассылается подписчикам.
// @Accept json
// @Produce json
// @Param matchID path int true "Match ID"
// @Param input body services.RecordWinnerInput true "Победитель"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Ошибка валидации"
// @Failure 401 {object} map[string]string "Неавторизован"
// @Failure 403 {object} map[string]string "Нет прав"
// @Failure 404 {object} map[string]string "Матч не найден"
// @Failure 409 {object} map[string]string "Следующий матч уже сыгран"
// @Failure 422 {object} map[string]string "Участник не играет в этом матче"
// @Security BearerAuth
// @Router /matches/{matchID}/winner [put]
func (h *MatchHandler) RecordWinner(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.RecordWinnerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.RecordWinner(r.Context(), matchID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
