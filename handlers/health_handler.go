package handlers

import "net/http"

// Health godoc
// @Summary Liveness probe
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func Health(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func Root(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"message": "Bracket System API",
		"docs":    "/swagger/index.html",
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
