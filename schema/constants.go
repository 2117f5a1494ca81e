package schema

// Custom string types for type safety.
type (
	// Criterion represents one of the fixed rating axes used for scoring.
	Criterion string

	// OutputMode represents the format of the output.
	OutputMode string

	// SchoolStatus represents the enquiry status tracked for a school.
	SchoolStatus string

	// TieBreak represents how equal scores are ordered after ranking.
	TieBreak string

	// MissingRatings represents how ingestion treats malformed ratings.
	MissingRatings string

	// DatabaseBackend represents the database backend for persistence.
	DatabaseBackend string
)

// Criteria used in the scoring logic.
const (
	CostCriterion       Criterion = "cost"
	EducationCriterion  Criterion = "education"
	StaffCriterion      Criterion = "staff"
	FacilitiesCriterion Criterion = "facilities"
	ReputationCriterion Criterion = "reputation"
	NQSCriterion        Criterion = "nqs"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All statuses supported.
const (
	NoStatus             SchoolStatus = ""
	PrioritisedStatus    SchoolStatus = "Prioritised"
	RequestedStatus      SchoolStatus = "Requested"
	AvailabilityStatus   SchoolStatus = "Availability"
	NoAvailabilityStatus SchoolStatus = "No Availability"
	NoneStatus           SchoolStatus = "None"
)

// All tie-break policies supported.
const (
	InputOrderTieBreak TieBreak = "input" // default
	PairwiseTieBreak   TieBreak = "pairwise"
	NameTieBreak       TieBreak = "name"
)

// All missing rating policies supported.
const (
	ZeroMissingRatings MissingRatings = "zero" // default
	SkipMissingRatings MissingRatings = "skip"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Weight bounds accepted from user input.
const (
	MinWeight     = 0.0
	MaxWeight     = 10.0
	DefaultWeight = 5.0
)

// AllCriteria lists every criterion in display order.
var AllCriteria = []Criterion{
	CostCriterion,
	EducationCriterion,
	StaffCriterion,
	FacilitiesCriterion,
	ReputationCriterion,
	NQSCriterion,
}

// CriterionLabels maps each criterion to its display label.
var CriterionLabels = map[Criterion]string{
	CostCriterion:       "Cost",
	EducationCriterion:  "Education",
	StaffCriterion:      "Staff",
	FacilitiesCriterion: "Facilities",
	ReputationCriterion: "Reputation",
	NQSCriterion:        "NQS",
}

// CriterionDescriptions explains what each rating measures.
var CriterionDescriptions = map[Criterion]string{
	CostCriterion:       "Affordability of fees relative to the area",
	EducationCriterion:  "Strength of the educational program",
	StaffCriterion:      "Staff quality, ratios and retention",
	FacilitiesCriterion: "Indoor and outdoor facilities",
	ReputationCriterion: "Community and parent reputation",
	NQSCriterion:        "National Quality Standard rating",
}

// ValidCriteria lists all valid criteria.
var ValidCriteria = map[Criterion]struct{}{
	CostCriterion:       {},
	EducationCriterion:  {},
	StaffCriterion:      {},
	FacilitiesCriterion: {},
	ReputationCriterion: {},
	NQSCriterion:        {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidSchoolStatuses lists all valid statuses, excluding the empty status.
var ValidSchoolStatuses = map[SchoolStatus]struct{}{
	PrioritisedStatus:    {},
	RequestedStatus:      {},
	AvailabilityStatus:   {},
	NoAvailabilityStatus: {},
	NoneStatus:           {},
}

// ValidTieBreaks lists all valid tie-break policies.
var ValidTieBreaks = map[TieBreak]struct{}{
	InputOrderTieBreak: {},
	PairwiseTieBreak:   {},
	NameTieBreak:       {},
}

// ValidMissingRatings lists all valid missing rating policies.
var ValidMissingRatings = map[MissingRatings]struct{}{
	ZeroMissingRatings: {},
	SkipMissingRatings: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// Fallback text used when ingested records omit descriptive fields.
const (
	UnnamedSchool     = "Unnamed School"
	NoAddressProvided = "No Address Provided"
)
