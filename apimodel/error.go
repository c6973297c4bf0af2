package apimodel

import (
	"encoding/json"
	"github.com/sirupsen/logrus"
	"net/http"
	"strconv"
)

type ErrorMessage struct {
	ErrStatusCode int    `json:"status_code"`
	ErrMessage    string `json:"message"`
}

func (e *ErrorMessage) StatusCode() int {
	return e.ErrStatusCode
}

func (e *ErrorMessage) Error() string {
	if e.ErrMessage != "" {
		return strconv.Itoa(e.ErrStatusCode) + ":" + e.ErrMessage
	} else {
		return strconv.Itoa(e.ErrStatusCode)
	}
}

// SendError writes the error as a JSON body, filling in a default message for well known statuses.
func (v ErrorMessage) SendError(w http.ResponseWriter) {
	if v.ErrMessage == "" {
		switch v.ErrStatusCode {
		case http.StatusOK:
			v.ErrMessage = "Ok"
		case http.StatusNotFound:
			v.ErrMessage = "Page not found"
		case http.StatusMethodNotAllowed:
			v.ErrMessage = "Method not allowed"
		case http.StatusForbidden:
			v.ErrMessage = "Forbidden"
		case http.StatusServiceUnavailable:
			v.ErrMessage = "Service unavailable"
		case http.StatusBadRequest:
			v.ErrMessage = "Bad request"
		default:
			v.ErrMessage = "Internal error"
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(v.ErrStatusCode)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		logrus.Errorf("error when encoding error: %v", err)
	}
}

//errors message
var TrackNotFoundErrorMessage = ErrorMessage{
	ErrStatusCode: http.StatusNotFound,
	ErrMessage:    "unknown track",
}

var WrongParametersErrorMessage = ErrorMessage{
	ErrStatusCode: http.StatusBadRequest,
	ErrMessage:    "unable to parse parameters",
}
