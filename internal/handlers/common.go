package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/coop-backend/internal/errs"
	"github.com/GregMSThompson/coop-backend/internal/middleware"
	"github.com/GregMSThompson/coop-backend/internal/models"
	"github.com/GregMSThompson/coop-backend/internal/response"
	"github.com/GregMSThompson/coop-backend/internal/store"
)

const maxBodyBytes = 1 << 20

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var syntax *json.SyntaxError
		var unmarshal *json.UnmarshalTypeError
		if errors.As(err, &syntax) || errors.As(err, &unmarshal) {
			return err
		}
		return errs.NewValidationError("invalid request body: " + err.Error())
	}
	return nil
}

// pathIDs reads the named URL parameters and rejects any that could not
// be a single database key.
func pathIDs(r *http.Request, names ...string) ([]string, error) {
	ids := make([]string, len(names))
	for i, name := range names {
		id := chi.URLParam(r, name)
		if !store.ValidKey(id) {
			return nil, errs.NewValidationError(name + " is not a valid id")
		}
		ids[i] = id
	}
	return ids, nil
}

func pathID(r *http.Request, name string) (string, error) {
	ids, err := pathIDs(r, name)
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

func yearParam(r *http.Request) (int, error) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		return 0, errs.NewValidationError("year must be a number")
	}
	return year, nil
}

// optionalInt reads a numeric query parameter; missing means zero.
func optionalInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.NewValidationError(name + " must be a number")
	}
	return n, nil
}

func isStaff(r *http.Request) bool {
	switch middleware.Role(r.Context()) {
	case models.RoleAdmin, models.RoleCoAdmin:
		return true
	}
	return false
}

// authorizeMember lets staff through and lets a member act only on their
// own record.
func authorizeMember(r *http.Request, members MemberService, memberID string) error {
	if !store.ValidKey(memberID) {
		return errs.NewValidationError("memberId is not a valid id")
	}
	if isStaff(r) {
		return nil
	}
	if middleware.Role(r.Context()) != models.RoleMember {
		return errs.NewForbiddenError("your role cannot access this resource")
	}
	m, err := members.GetMember(r.Context(), memberID)
	if err != nil {
		return err
	}
	if m.UID != middleware.UID(r.Context()) {
		return errs.NewForbiddenError("members can only access their own records")
	}
	return nil
}

// requireStaff writes a 403 and returns false unless the caller is an
// admin or co-admin.
func requireStaff(rh response.ResponseHandler, w http.ResponseWriter, r *http.Request) bool {
	if isStaff(r) {
		return true
	}
	rh.HandleError(w, r, errs.NewForbiddenError("your role cannot access this resource"))
	return false
}
