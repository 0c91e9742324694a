package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"loan-predictor/domain"
	"loan-predictor/service"
)

func newPredictCmd(app *App) *cobra.Command {
	// Flag values are kept raw; the form model does all coercion.
	raw := make(map[string]*string, len(service.FormFields))

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Score a loan application",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(app); err != nil {
				return err
			}

			app.Form.Reset()
			for name, value := range raw {
				if err := app.Form.SetField(name, *value); err != nil {
					return err
				}
			}

			application, violations := app.Form.Validate()
			if violations != nil {
				renderViolations(cmd.ErrOrStderr(), violations)
				return violations
			}

			outcome, err := app.Predictor.Submit(cmd.Context(), application)
			if err != nil {
				return err
			}

			renderOutcome(cmd.OutOrStdout(), outcome)
			return nil
		},
	}

	flagHelp := map[string]string{
		service.FieldAnnualIncome:      "annual income in dollars",
		service.FieldDebtToIncomeRatio: "debt-to-income ratio, 0-1 (e.g. 0.35 for 35%)",
		service.FieldCreditScore:       "credit score, 300-850",
		service.FieldLoanAmount:        "requested loan amount in dollars",
		service.FieldInterestRate:      "interest rate in percent",
		service.FieldGender:            "one of: " + strings.Join(domain.Genders, ", "),
		service.FieldMaritalStatus:     "one of: " + strings.Join(domain.MaritalStatuses, ", "),
		service.FieldEducationLevel:    "one of: " + strings.Join(domain.EducationLevels, ", "),
		service.FieldEmploymentStatus:  "one of: " + strings.Join(domain.EmploymentStatuses, ", "),
		service.FieldLoanPurpose:       "one of: " + strings.Join(domain.LoanPurposes, ", "),
		service.FieldGradeSubgrade:     "loan grade, letter A-F plus digit 1-5 (e.g. C1)",
	}

	for _, name := range service.FormFields {
		value := new(string)
		raw[name] = value
		flag := strings.ReplaceAll(name, "_", "-")
		cmd.Flags().StringVar(value, flag, "", flagHelp[name])
		_ = cmd.MarkFlagRequired(flag)
	}

	return cmd
}
