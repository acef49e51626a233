package handlers

import (
	"net/http"

	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/utils"
)

func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.OK(w, http.StatusOK, "ok", nil)
	}
}
