package report

import (
	"encoding/json"
	"io"

	"github.com/discochess/pgnswing"
)

type jsonReport struct {
	Games      int           `json:"games"`
	Summaries  []jsonSummary `json:"summaries"`
	Errors     []jsonError   `json:"errors"`
	Statistics *Statistics   `json:"statistics,omitempty"`
}

type jsonSummary struct {
	Game     int          `json:"game"`
	Event    string       `json:"event,omitempty"`
	White    string       `json:"white"`
	Black    string       `json:"black"`
	Result   string       `json:"result"`
	Plies    int          `json:"plies"`
	WhiteMax *jsonExtreme `json:"white_max"`
	WhiteMin *jsonExtreme `json:"white_min"`
	BlackMax *jsonExtreme `json:"black_max"`
	BlackMin *jsonExtreme `json:"black_min"`
}

// jsonExtreme is null when the extreme does not apply to the result.
// Move is null when the side has no evaluation.
type jsonExtreme struct {
	Move *int    `json:"move"`
	Eval float64 `json:"eval"`
}

type jsonError struct {
	Game  int    `json:"game"`
	White string `json:"white,omitempty"`
	Black string `json:"black,omitempty"`
	Error string `json:"error"`
}

func toJSONExtreme(e pgnswing.Extreme) *jsonExtreme {
	if !e.Applicable {
		return nil
	}
	je := &jsonExtreme{Eval: e.Eval}
	if e.Move > 0 {
		move := e.Move
		je.Move = &move
	}
	return je
}

func writeJSON(w io.Writer, rep *pgnswing.Report, o *options) error {
	out := jsonReport{
		Games:     rep.Games,
		Summaries: make([]jsonSummary, len(rep.Summaries)),
		Errors:    make([]jsonError, 0, len(rep.Errors)),
	}
	for i, s := range rep.Summaries {
		out.Summaries[i] = jsonSummary{
			Game:     s.Game,
			Event:    s.Event,
			White:    s.White,
			Black:    s.Black,
			Result:   s.Result,
			Plies:    s.Plies,
			WhiteMax: toJSONExtreme(s.WhiteMax),
			WhiteMin: toJSONExtreme(s.WhiteMin),
			BlackMax: toJSONExtreme(s.BlackMax),
			BlackMin: toJSONExtreme(s.BlackMin),
		}
	}
	if o.errors {
		for _, ge := range rep.Errors {
			out.Errors = append(out.Errors, jsonError{
				Game:  ge.Game,
				White: ge.White,
				Black: ge.Black,
				Error: ge.Err.Error(),
			})
		}
	}
	if o.statistics {
		out.Statistics = Compute(rep)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
