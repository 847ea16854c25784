package training

import (
	"os"

	"github.com/pkg/errors"
	"github.com/wcharczuk/go-chart"
)

// WriteMetricsReport renders the run's loss and accuracy curves to a single
// PNG: both losses on the primary axis, discriminator accuracy on the
// secondary. This is the end-of-run summary artifact; incremental plotting
// is deliberately not supported.
func WriteMetricsReport(path string, history TrainingHistory) error {
	if len(history) == 0 {
		return errors.New("training: empty history, nothing to report")
	}

	xs := make([]float64, len(history))
	for i, m := range history {
		xs[i] = float64(m.Epoch)
	}

	graph := chart.Chart{
		Title:      "Training Metrics",
		TitleStyle: chart.StyleShow(),
		XAxis: chart.XAxis{
			Name:      "Epoch",
			NameStyle: chart.StyleShow(),
			Style:     chart.StyleShow(),
		},
		YAxis: chart.YAxis{
			Name:      "Loss",
			NameStyle: chart.StyleShow(),
			Style:     chart.StyleShow(),
		},
		YAxisSecondary: chart.YAxis{
			Name:      "Accuracy",
			NameStyle: chart.StyleShow(),
			Style:     chart.StyleShow(),
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Generator Loss",
				XValues: xs,
				YValues: history.GenLosses(),
				Style: chart.Style{
					Show:        true,
					StrokeColor: chart.GetDefaultColor(0),
				},
			},
			chart.ContinuousSeries{
				Name:    "Discriminator Loss",
				XValues: xs,
				YValues: history.DiscLosses(),
				Style: chart.Style{
					Show:        true,
					StrokeColor: chart.GetDefaultColor(1),
				},
			},
			chart.ContinuousSeries{
				Name:    "Discriminator Accuracy",
				XValues: xs,
				YValues: history.DiscAccuracies(),
				YAxis:   chart.YAxisSecondary,
				Style: chart.Style{
					Show:        true,
					StrokeColor: chart.GetDefaultColor(2),
				},
			},
		},
	}
	graph.Elements = []chart.Renderable{
		chart.Legend(&graph),
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "training: creating metrics report")
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		return errors.Wrap(err, "training: rendering metrics report")
	}
	return nil
}
