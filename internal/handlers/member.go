package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/coop-backend/internal/dto"
	"github.com/GregMSThompson/coop-backend/internal/middleware"
	"github.com/GregMSThompson/coop-backend/internal/response"
)

type memberHandlers struct {
	ResponseHandler response.ResponseHandler
	MemberSvc       MemberService
	TransactionSvc  TransactionService
}

func NewMemberHandlers(deps *Deps) *memberHandlers {
	return &memberHandlers{
		ResponseHandler: deps.ResponseHandler,
		MemberSvc:       deps.MemberSvc,
		TransactionSvc:  deps.TransactionSvc,
	}
}

func (h *memberHandlers) MemberRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Put("/{id}/status", h.SetStatus)
	r.Get("/{id}/transactions", h.Transactions)
	return r
}

func (h *memberHandlers) List(w http.ResponseWriter, r *http.Request) {
	if !requireStaff(h.ResponseHandler, w, r) {
		return
	}
	members, err := h.MemberSvc.ListMembers(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, members)
}

func (h *memberHandlers) Create(w http.ResponseWriter, r *http.Request) {
	if !requireStaff(h.ResponseHandler, w, r) {
		return
	}
	var body dto.CreateMemberRequest
	if err := decodeBody(w, r, &body); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	member, err := h.MemberSvc.CreateMember(r.Context(), body)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, member)
}

func (h *memberHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := authorizeMember(r, h.MemberSvc, id); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	member, err := h.MemberSvc.GetMember(r.Context(), id)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, member)
}

func (h *memberHandlers) Update(w http.ResponseWriter, r *http.Request) {
	if !requireStaff(h.ResponseHandler, w, r) {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	var body dto.UpdateMemberRequest
	if err := decodeBody(w, r, &body); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	member, err := h.MemberSvc.UpdateMember(r.Context(), id, body)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, member)
}

func (h *memberHandlers) SetStatus(w http.ResponseWriter, r *http.Request) {
	if !requireStaff(h.ResponseHandler, w, r) {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	var body dto.SetStatusRequest
	if err := decodeBody(w, r, &body); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	member, err := h.MemberSvc.SetStatus(r.Context(), id, body.Status)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, member)
}

func (h *memberHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if !requireStaff(h.ResponseHandler, w, r) {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	by := middleware.Email(r.Context())
	if err := h.MemberSvc.DeleteMember(r.Context(), id, by); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *memberHandlers) Transactions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := authorizeMember(r, h.MemberSvc, id); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	history, err := h.TransactionSvc.History(r.Context(), id, r.URL.Query().Get("type"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, history)
}
