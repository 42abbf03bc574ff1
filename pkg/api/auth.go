package api

import (
	"fmt"
	"net/http"
)

type authState struct {
	Subject  string `json:"subject"`
	SignedIn bool   `json:"signedIn"`
}

func (a *API) login(r *http.Request, _ struct{}) Response {
	if a.auth == nil {
		return errorResponse(ErrFeatureDisabled)
	}
	u, err := a.auth.AuthURL(r.Context(), a.subject)
	if err != nil {
		return errorResponse(err)
	}
	return Redirect(u)
}

type callbackRequest struct {
	State       string `query:"state"`
	Code        string `query:"code"`
	Error       string `query:"error"`
	Description string `query:"error_description"`
}

func (a *API) callback(r *http.Request, req callbackRequest) Response {
	if a.auth == nil {
		return errorResponse(ErrFeatureDisabled)
	}
	if req.Error != "" {
		return errorResponse(fmt.Errorf("%w: %s: %s", ErrInvalidRequest, req.Error, req.Description))
	}
	subject, err := a.auth.Callback(r.Context(), req.State, req.Code)
	if err != nil {
		return errorResponse(err)
	}
	return JSON(authState{Subject: subject, SignedIn: true})
}

func (a *API) authStatus(r *http.Request, _ struct{}) Response {
	if a.auth == nil {
		return errorResponse(ErrFeatureDisabled)
	}
	return JSON(authState{Subject: a.subject, SignedIn: a.auth.SignedIn(r.Context(), a.subject)})
}

func (a *API) logout(r *http.Request, _ struct{}) Response {
	if a.auth == nil {
		return errorResponse(ErrFeatureDisabled)
	}
	if err := a.auth.SignOut(r.Context(), a.subject); err != nil {
		return errorResponse(err)
	}
	return NoContent()
}
