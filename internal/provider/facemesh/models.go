package facemesh

// DetectRequest for POST /detect
type DetectRequest struct {
	Img          string `json:"img"`           // base64 encoded PNG
	MaxFaces     int    `json:"max_faces"`     // 0 = no limit
	WithLandmark bool   `json:"with_landmark"` // include the 68-point set
}

// DetectResponse from POST /detect
type DetectResponse struct {
	Faces []DetectResult `json:"faces"`
}

type DetectResult struct {
	Region      FacialArea         `json:"region"`
	Landmarks   [][2]float64       `json:"landmarks"`
	Descriptor  []float64          `json:"descriptor"`
	Expressions map[string]float64 `json:"expressions"`
	Confidence  float64            `json:"confidence"`
}

type FacialArea struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}
