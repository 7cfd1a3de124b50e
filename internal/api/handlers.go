package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"poolRegistry/internal/model"
	"poolRegistry/internal/pool"
)

const maxBodyBytes = 1 << 20

type handler struct {
	svc    PoolService
	logger *zap.Logger
}

// poolPayload accepts both "id" and "_id" for the record identifier.
type poolPayload struct {
	ID       string `json:"id,omitempty"`
	LegacyID string `json:"_id,omitempty"`
	Address  string `json:"address"`
	Name     string `json:"name,omitempty"`
	Dex      string `json:"dex,omitempty"`
	Token    string `json:"token,omitempty"`
	Symbol   string `json:"symbol,omitempty"`
}

type poolRequest struct {
	Pool *poolPayload `json:"pool"`
}

func (p *poolPayload) input() *model.PoolInput {
	if p == nil {
		return nil
	}
	id := p.ID
	if id == "" {
		id = p.LegacyID
	}
	return &model.PoolInput{
		ID:      id,
		Address: p.Address,
		Name:    p.Name,
		Dex:     p.Dex,
		Token:   p.Token,
		Symbol:  p.Symbol,
	}
}

func (h *handler) getPool(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	id := q.Get("_id")
	if id == "" {
		id = q.Get("id")
	}

	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if p == nil {
		writeOK(w, nil)
		return
	}
	writeOK(w, p)
}

func (h *handler) getPools(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var lq pool.ListQuery
	if raw := q.Get("condition"); raw != "" {
		if err := decodeStrict(strings.NewReader(raw), &lq.Filter); err != nil {
			h.writeError(w, r, fmt.Errorf("%w: condition: %v", pool.ErrInvalidInput, err))
			return
		}
	}

	var err error
	if lq.Limit, err = intParam(q.Get("limit"), "limit"); err != nil {
		h.writeError(w, r, err)
		return
	}
	if lq.Page, err = intParam(q.Get("page"), "page"); err != nil {
		h.writeError(w, r, err)
		return
	}

	page, err := h.svc.List(r.Context(), lq)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	ids := page.IDs
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, envelope{
		Status:     statusOK,
		Data:       ids,
		Pagination: &pagination{Limit: page.Limit, Page: page.Page},
	})
}

func (h *handler) addPool(w http.ResponseWriter, r *http.Request) {
	req, err := decodePoolRequest(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	p, err := h.svc.Create(r.Context(), req.Pool.input())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, p)
}

func (h *handler) updatePool(w http.ResponseWriter, r *http.Request) {
	req, err := decodePoolRequest(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	p, err := h.svc.Update(r.Context(), req.Pool.input())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, p)
}

func (h *handler) deletePool(w http.ResponseWriter, r *http.Request) {
	req, err := decodePoolRequest(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	in := req.Pool.input()
	if in == nil {
		h.writeError(w, r, fmt.Errorf("%w: pool is required", pool.ErrInvalidInput))
		return
	}
	p, err := h.svc.Delete(r.Context(), in.ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, p)
}

func decodePoolRequest(r *http.Request) (poolRequest, error) {
	var req poolRequest
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return req, fmt.Errorf("%w: read body: %v", pool.ErrInvalidInput, err)
	}
	if len(body) > maxBodyBytes {
		return req, fmt.Errorf("%w: body too large", pool.ErrInvalidInput)
	}
	if err := decodeStrict(bytes.NewReader(body), &req); err != nil {
		return req, fmt.Errorf("%w: %v", pool.ErrInvalidInput, err)
	}
	return req, nil
}

func decodeStrict(r io.Reader, v interface{}) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("unexpected trailing data")
	}
	return nil
}

func intParam(raw, name string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer", pool.ErrInvalidInput, name)
	}
	return &v, nil
}
