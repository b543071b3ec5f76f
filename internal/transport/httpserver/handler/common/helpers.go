package common

import "net/http"

func writeError(w http.ResponseWriter, status int, code, message string) {
	WriteError(w, status, code, message)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	WriteJSON(w, status, payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	return DecodeJSON(r, dst)
}

func internalError(w http.ResponseWriter) {
	InternalError(w)
}
