package athlete

const (
	minWeight = 1
	maxWeight = 899
)

// Info holds an athlete's goals and weight. Weight is nil when unknown.
type Info struct {
	UserID string `json:"user_id"`
	Goals  string `json:"goals"`
	Weight *int   `json:"weight"`
}

type UpdateInput struct {
	Goals  string `json:"goals"`
	Weight *int   `json:"weight"`
}
