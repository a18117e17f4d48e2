package main

import (
	"bytes"
	"math"
	"os"

	"github.com/carbocation/qpcrcalib/calibrate"
	"github.com/wcharczuk/go-chart/v2"
)

// plotStandardCurve renders the standard points and the fitted calibration
// line over the observed Cq range.
func plotStandardCurve(filename string, result *calibrate.Result) error {
	var xs, ys []float64
	for _, p := range result.Points {
		if math.IsNaN(p.MeanCq) || math.IsNaN(p.MeanLog2Qty) {
			continue
		}
		xs = append(xs, p.MeanCq)
		ys = append(ys, p.MeanLog2Qty)
	}

	lineX := []float64{result.Range.Min, result.Range.Max}
	lineY := []float64{result.Model.Predict(result.Range.Min), result.Model.Predict(result.Range.Max)}

	graph := chart.Chart{
		Width:  512,
		Height: 384,
		XAxis:  chart.XAxis{Name: "mean Cq"},
		YAxis:  chart.YAxis{Name: "mean log2 quantity"},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "standards",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    4,
				},
			},
			chart.ContinuousSeries{
				Name:    "fit",
				XValues: lineX,
				YValues: lineY,
			},
		},
	}

	return renderPNG(filename, graph)
}

// plotFittedVersusObserved renders each prediction's fitted log2 quantity
// against its observed log2 quantity, with the identity line for reference.
func plotFittedVersusObserved(filename string, result *calibrate.Result) error {
	var xs, ys []float64
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range result.Predictions {
		xs = append(xs, p.MeanLog2Qty)
		ys = append(ys, p.FittedLog2Qty)
		lo = math.Min(lo, math.Min(p.MeanLog2Qty, p.FittedLog2Qty))
		hi = math.Max(hi, math.Max(p.MeanLog2Qty, p.FittedLog2Qty))
	}

	if len(xs) == 0 {
		// Nothing predicted; an empty chart is useless.
		return nil
	}

	graph := chart.Chart{
		Width:  512,
		Height: 384,
		XAxis:  chart.XAxis{Name: "observed log2 quantity"},
		YAxis:  chart.YAxis{Name: "fitted log2 quantity"},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "unknowns",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    4,
				},
			},
			chart.ContinuousSeries{
				Name:    "identity",
				XValues: []float64{lo, hi},
				YValues: []float64{lo, hi},
			},
		},
	}

	return renderPNG(filename, graph)
}

func renderPNG(filename string, graph chart.Chart) error {
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return err
	}

	outFile, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer outFile.Close()

	if _, err := buffer.WriteTo(outFile); err != nil {
		return err
	}

	return nil
}
