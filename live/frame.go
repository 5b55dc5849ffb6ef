package live

// Resources the backend pushes frames for.
const (
	ResourceServices = "services"
	ResourceMetrics  = "metrics"
	ResourceActivity = "activity"
)

// Frame is a single push notification: a partial or full replacement value
// for one logical resource slice. Frames may arrive in any order relative to
// in-flight fetches.
type Frame struct {
	Resource string                 `json:"resource"`
	Payload  map[string]interface{} `json:"payload"`
}

type FrameSource <-chan Frame

func knownResource(resource string) bool {
	switch resource {
	case ResourceServices, ResourceMetrics, ResourceActivity:
		return true
	}
	return false
}
