package domain

// ContentKind is the declared modality of a source record.
type ContentKind string

const (
	KindText  ContentKind = "text"
	KindImage ContentKind = "image"
	KindAudio ContentKind = "audio"
)

// KnownContentKinds maps every declared content kind to whether an
// extraction path is implemented for it. Kinds absent from this map are
// invalid rather than unsupported.
var KnownContentKinds = map[ContentKind]bool{
	KindText:  true,
	KindImage: false,
	KindAudio: false,
}

// WorkloadType classifies what a requirement will run.
type WorkloadType string

const (
	WorkloadGeneral         WorkloadType = "general"
	WorkloadCompute         WorkloadType = "compute"
	WorkloadMemoryIntensive WorkloadType = "memory_intensive"
)

// ProductCategory identifies which purchasable product a record asks for.
// The quotation pipeline is configured for exactly one category per run.
type ProductCategory string

const (
	CategoryECS     ProductCategory = "ECS"
	CategoryPolarDB ProductCategory = "PolarDB"
	CategoryWAF     ProductCategory = "WAF"
	CategorySAS     ProductCategory = "SAS"
)

// ChargeType is the instance billing mode.
type ChargeType string

const (
	ChargePrePaid  ChargeType = "PrePaid"
	ChargePostPaid ChargeType = "PostPaid"
)

// Valid reports whether c is a recognized billing mode.
func (c ChargeType) Valid() bool {
	return c == ChargePrePaid || c == ChargePostPaid
}

// PriceUnit is the subscription term unit for prepaid pricing.
type PriceUnit string

const (
	UnitMonth PriceUnit = "Month"
	UnitYear  PriceUnit = "Year"
)

// RankStrategy selects how the recommendation service orders candidates.
type RankStrategy string

const (
	RankNewProductFirst RankStrategy = "NewProductFirst"
	RankInventoryFirst  RankStrategy = "InventoryFirst"
	RankPriceFirst      RankStrategy = "PriceFirst"
)

// Valid reports whether s is one of the closed set of ranking strategies.
func (s RankStrategy) Valid() bool {
	switch s {
	case RankNewProductFirst, RankInventoryFirst, RankPriceFirst:
		return true
	}
	return false
}

// Stage is a record's position in the quotation pipeline.
type Stage string

const (
	StagePending     Stage = "pending"
	StageInterpreted Stage = "interpreted"
	StageResolved    Stage = "resolved"
	StagePriced      Stage = "priced"
	StageDone        Stage = "done"
	StageFailed      Stage = "failed"
)

// BatchStatus is the lifecycle of a persisted batch run.
type BatchStatus string

const (
	BatchStatusRunning   BatchStatus = "running"
	BatchStatusCompleted BatchStatus = "completed"
	BatchStatusFailed    BatchStatus = "failed"
)
