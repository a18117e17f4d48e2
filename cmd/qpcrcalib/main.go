// qpcrcalib calibrates qPCR Cq measurements against known-concentration
// standards and applies the fitted standard curve to the unknown samples on
// the plate, emitting one labelled prediction table.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/carbocation/pfx"
	"github.com/carbocation/qpcrcalib"
	"github.com/carbocation/qpcrcalib/calibrate"
	_ "github.com/carbocation/qpcrcalib/compileinfoprint"
	"github.com/gocarina/gocsv"
)

func main() {
	var concentrationPath, qpcrPath, outputPath, plotPrefix string

	flag.StringVar(&concentrationPath, "concentrations", "", "Path to the concentration table (must contain columns 'Sample' and 'Final Concentration (ng/uL)')")
	flag.StringVar(&qpcrPath, "qpcr", "", "Path to the qPCR results table (must contain columns 'Well', 'Sample', 'Cq', 'Quantity'; .xls or delimited text)")
	flag.StringVar(&outputPath, "out", "", "Path where the prediction table will be written (CSV)")
	flag.StringVar(&plotPrefix, "plotprefix", "", "If set, diagnostic charts are written as <plotprefix>_curve.png and <plotprefix>_fit.png. (Optional.)")
	flag.Parse()

	if concentrationPath == "" {
		log.Println("Please provide -concentrations")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if qpcrPath == "" {
		log.Println("Please provide -qpcr")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if outputPath == "" {
		log.Println("Please provide -out")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg := calibrate.Config{
		ConcentrationPath: qpcrcalib.ExpandHome(concentrationPath),
		QPCRPath:          qpcrcalib.ExpandHome(qpcrPath),
		OutputPath:        qpcrcalib.ExpandHome(outputPath),
	}

	result, err := calibrate.Run(cfg)
	if err != nil {
		log.Fatalln(pfx.Err(err))
	}

	if unmatched := result.Unmatched(); len(unmatched) > 0 {
		log.Println("Note:", len(unmatched), "predicted samples have no row in the concentration table:", unmatched)
	}

	if err := writePredictions(cfg.OutputPath, result.Predictions); err != nil {
		log.Fatalln(pfx.Err(err))
	}
	log.Println("Wrote", len(result.Predictions), "predictions to", cfg.OutputPath)

	if plotPrefix != "" {
		if err := plotStandardCurve(plotPrefix+"_curve.png", result); err != nil {
			log.Fatalln(pfx.Err(err))
		}
		if err := plotFittedVersusObserved(plotPrefix+"_fit.png", result); err != nil {
			log.Fatalln(pfx.Err(err))
		}
		log.Println("Wrote diagnostic charts with prefix", plotPrefix)
	}
}

func writePredictions(path string, predictions []calibrate.Prediction) error {
	outFile, err := os.Create(path)
	if err != nil {
		return err
	}
	defer outFile.Close()

	return gocsv.MarshalFile(&predictions, outFile)
}
