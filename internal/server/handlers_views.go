package server

import (
	"log"
	"net/http"
	"time"

	qrcode "github.com/skip2/go-qrcode"
)

// handleJoinQR renders the audience join URL as a QR PNG for the display.
func (s *Server) handleJoinQR(w http.ResponseWriter, r *http.Request) {
	png, err := qrcode.Encode(s.cfg.AudienceURL, qrcode.Medium, 512)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to render QR code")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (s *Server) handleAudienceExport(w http.ResponseWriter, r *http.Request) {
	members := s.store.AudienceMembers()
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="audience-`+time.Now().UTC().Format("20060102-150405")+`.csv"`)
	if err := WriteAudienceCSV(w, members); err != nil {
		log.Printf("audience export failed error=%v", err)
	}
}
