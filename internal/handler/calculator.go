package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/solardev/solar-api/internal/apperror"
)

// CalculatorHandler serves the four arithmetic endpoints. There is no service
// behind it: the operations are pure functions of the request body, so a
// service layer would be indirection with nothing to hide.
type CalculatorHandler struct {
	logger *slog.Logger
}

func NewCalculatorHandler(logger *slog.Logger) *CalculatorHandler {
	return &CalculatorHandler{logger: logger}
}

// CalcRequest carries the two operands. Missing fields decode to zero, which
// is a valid operand everywhere except as a divisor — that case gets its own
// check in HandleDivide.
type CalcRequest struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// CalcResponse echoes the operation name alongside the result so responses
// are self-describing in logs and demos.
type CalcResponse struct {
	Result    float64 `json:"result"`
	Operation string  `json:"operation"`
}

func (h *CalculatorHandler) decodeOperands(w http.ResponseWriter, r *http.Request) (CalcRequest, bool) {
	var req CalcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON in request body"))
		return CalcRequest{}, false
	}
	return req, true
}

// HandleAdd handles POST /api/calculator/add.
func (h *CalculatorHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeOperands(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, CalcResponse{Result: req.A + req.B, Operation: "addition"})
}

// HandleSubtract handles POST /api/calculator/subtract.
func (h *CalculatorHandler) HandleSubtract(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeOperands(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, CalcResponse{Result: req.A - req.B, Operation: "subtraction"})
}

// HandleMultiply handles POST /api/calculator/multiply.
func (h *CalculatorHandler) HandleMultiply(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeOperands(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, CalcResponse{Result: req.A * req.B, Operation: "multiplication"})
}

// HandleDivide handles POST /api/calculator/divide. Division by zero is a
// client error, not a panic: IEEE 754 would happily produce +Inf here, and
// +Inf does not survive JSON encoding.
func (h *CalculatorHandler) HandleDivide(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeOperands(w, r)
	if !ok {
		return
	}
	if req.B == 0 {
		writeError(w, apperror.ValidationFailed("b", "cannot divide by zero"))
		return
	}
	writeJSON(w, http.StatusOK, CalcResponse{Result: req.A / req.B, Operation: "division"})
}
