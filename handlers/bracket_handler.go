package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/bracket-board/render"
	"github.com/Dosada05/bracket-board/services"
)

type BracketHandler struct {
	bracketService services.BracketService
	exportService  services.ExportService
}

func NewBracketHandler(bs services.BracketService, es services.ExportService) *BracketHandler {
	return &BracketHandler{
		bracketService: bs,
		exportService:  es,
	}
}

// GetGraph godoc
// @Summary Граф сетки турнира
// @Tags brackets
// @Description Узлы, ребра и справочник участников для отрисовки сетки на выбывание.
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {object} models.BracketGraph
// @Failure 400 {object} map[string]string "Неверный ID"
// @Failure 404 {object} map[string]string "Турнир не найден"
// @Failure 422 {object} map[string]string "Данные сетки противоречивы"
// @Router /tournaments/{tournamentID}/bracket [get]
func (h *BracketHandler) GetGraph(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	graph, err := h.bracketService.GetGraph(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, graph, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetDOT godoc
// @Summary Сетка в формате Graphviz DOT
// @Tags brackets
// @Produce plain
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {string} string "DOT"
// @Failure 404 {object} map[string]string "Турнир не найден"
// @Router /tournaments/{tournamentID}/bracket.dot [get]
func (h *BracketHandler) GetDOT(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	graph, err := h.bracketService.GetGraph(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(render.DOT(graph, h.bracketService.Layout())))
}

// ListParticipants godoc
// @Summary Справочник участников сетки
// @Tags brackets
// @Description Без q возвращает всех участников по порядку номеров; q ищет по имени или номеру.
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param q query string false "Имя или номер участника"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Турнир не найден"
// @Router /tournaments/{tournamentID}/bracket/participants [get]
func (h *BracketHandler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	participants, err := h.bracketService.SearchParticipants(r.Context(), tournamentID, r.URL.Query().Get("q"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"participants": participants}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Export godoc
// @Summary Выгрузить сетку в хранилище
// @Tags brackets
// @Accept json
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param input body services.ExportInput false "Форматы: json, dot, svg"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Неизвестный формат"
// @Failure 401 {object} map[string]string "Неавторизован"
// @Failure 403 {object} map[string]string "Нет прав"
// @Failure 429 {object} map[string]string "Слишком много запросов"
// @Failure 503 {object} map[string]string "Выгрузка не настроена"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/bracket/exports [post]
func (h *BracketHandler) Export(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.ExportInput
	if r.ContentLength != 0 {
		if err := readJSON(w, r, &input); err != nil && !errors.Is(err, errEmptyBody) {
			badRequestResponse(w, r, err)
			return
		}
	}

	exports, err := h.exportService.Export(r.Context(), tournamentID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"exports": exports}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
