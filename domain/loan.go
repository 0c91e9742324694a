package domain

// Values accepted by the scoring backend for each categorical field. The
// model was trained on these exact labels; anything else is rejected before
// a request is built.
var (
	Genders            = []string{"Male", "Female", "Other"}
	MaritalStatuses    = []string{"Single", "Married", "Divorced"}
	EducationLevels    = []string{"High School", "Bachelor's", "Master's", "PhD", "Other"}
	EmploymentStatuses = []string{"Employed", "Unemployed", "Self-employed"}
	LoanPurposes       = []string{
		"Debt consolidation", "Home", "Car", "Education",
		"Business", "Medical", "Vacation", "Other",
	}
)

// LoanApplication is the eleven-field payload sent to the /predict endpoint.
// All fields are required; partial applications never leave the client.
type LoanApplication struct {
	AnnualIncome      float64 `json:"annual_income" validate:"gt=0"`
	DebtToIncomeRatio float64 `json:"debt_to_income_ratio" validate:"gte=0,lte=1"`
	CreditScore       int     `json:"credit_score" validate:"gte=300,lte=850"`
	LoanAmount        float64 `json:"loan_amount" validate:"gt=0"`
	InterestRate      float64 `json:"interest_rate" validate:"gte=0"`
	Gender            string  `json:"gender" validate:"required"`
	MaritalStatus     string  `json:"marital_status" validate:"required"`
	EducationLevel    string  `json:"education_level" validate:"required"`
	EmploymentStatus  string  `json:"employment_status" validate:"required"`
	LoanPurpose       string  `json:"loan_purpose" validate:"required"`
	GradeSubgrade     string  `json:"grade_subgrade" validate:"required"`
}
