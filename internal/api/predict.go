package api

import "net/http"

// predictRequest is the body of POST /predict.
type predictRequest struct {
	ConsumptionKWh *float64 `json:"consumptionKWh"`
	GenerationKWh  float64  `json:"generationKWh"`
}

// predictResponse carries the model output.
type predictResponse struct {
	NextConsumptionKWh float64 `json:"nextConsumptionKWh"`
}

// handlePredict estimates next-period consumption from a current reading.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	req, ok := decodePayload[predictRequest](w, r)
	if !ok {
		return
	}
	if req.ConsumptionKWh == nil {
		writeBadRequest(w, "consumptionKWh is required")
		return
	}

	next := s.predictor.Predict(*req.ConsumptionKWh, req.GenerationKWh)
	writeJSON(w, http.StatusOK, predictResponse{NextConsumptionKWh: next})
}
