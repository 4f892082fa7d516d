package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"carprice/config"
	"carprice/ml"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var configPath, modelPath string
	var attrs ml.CarAttributes

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Estimate the selling price of one car with a trained model",
		Example: `
  predict --name "Maruti Swift Dzire VDI" --year 2015 --km_driven 40000 --fuel Petrol \
    --seller_type Individual --transmission Manual --owner "First Owner" \
    --mileage 21.5 --engine 1197 --max_power 82 --seats 5`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := ml.CarRequest{
				Name:         attrs.Name,
				Year:         &attrs.Year,
				KmDriven:     &attrs.KmDriven,
				Fuel:         attrs.Fuel,
				SellerType:   attrs.SellerType,
				Transmission: attrs.Transmission,
				Owner:        attrs.Owner,
				Mileage:      &attrs.Mileage,
				Engine:       &attrs.Engine,
				MaxPower:     &attrs.MaxPower,
				Seats:        &attrs.Seats,
			}
			if err := req.Validate(); err != nil {
				return err
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if !cmd.Flags().Changed("model_path") {
				modelPath = cfg.ML.ModelPath
			}
			model, err := ml.LoadModel(cfg.ML.ModelType, modelPath)
			if err != nil {
				return err
			}
			return predict(out, model, req.Attributes())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "config.yaml", "path to the YAML config file")
	flags.StringVar(&modelPath, "model_path", "", "trained model artifact")
	flags.StringVar(&attrs.Name, "name", "", "car name; only the first word (the brand) is used")
	flags.IntVar(&attrs.Year, "year", 0, "manufacturing year")
	flags.IntVar(&attrs.KmDriven, "km_driven", 0, "kilometers driven")
	flags.StringVar(&attrs.Fuel, "fuel", "", "Diesel, Petrol, LPG or CNG")
	flags.StringVar(&attrs.SellerType, "seller_type", "", "Individual, Dealer or Trustmark Dealer")
	flags.StringVar(&attrs.Transmission, "transmission", "", "Manual or Automatic")
	flags.StringVar(&attrs.Owner, "owner", "", "First Owner, Second Owner, ...")
	flags.Float64Var(&attrs.Mileage, "mileage", 0, "mileage in kmpl")
	flags.Float64Var(&attrs.Engine, "engine", 0, "engine displacement in CC")
	flags.Float64Var(&attrs.MaxPower, "max_power", 0, "max power in bhp")
	flags.IntVar(&attrs.Seats, "seats", 5, "number of seats")
	for _, name := range []string{"name", "year", "km_driven", "fuel", "seller_type", "transmission", "owner", "mileage", "engine", "max_power"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func predict(out io.Writer, model ml.PriceModel, attrs ml.CarAttributes) error {
	predictor, err := ml.NewPredictor(model, 0)
	if err != nil {
		return err
	}
	estimate, err := predictor.Estimate(attrs)
	if err != nil {
		var unknown *ml.UnknownCategoryError
		if errors.As(err, &unknown) {
			return fmt.Errorf("%s %q is not supported by this model", unknown.Field, unknown.Label)
		}
		return err
	}

	fmt.Fprintf(out, "Predicted Car Price: %s\n", estimate.Formatted)
	summary, err := json.MarshalIndent(estimate.Inputs, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s\n", summary)
	return nil
}
