package domain

// EntityType identifies a protected financial record type. It is a closed
// enumeration: only the types listed here carry a sensitive-field schema, and
// free-form strings must go through ParseEntityType at the boundary so that a
// typo cannot silently take the unknown-type passthrough path.
type EntityType string

const (
	// EntityTypeAccount is a bank or cash account.
	EntityTypeAccount EntityType = "account"

	// EntityTypeTransaction is a single ledger transaction.
	EntityTypeTransaction EntityType = "transaction"

	// EntityTypeRecurringItem is a detected or user-defined recurring income/expense.
	EntityTypeRecurringItem EntityType = "recurring_item"

	// EntityTypeSavingsGoal is a savings target with progress tracking.
	EntityTypeSavingsGoal EntityType = "savings_goal"

	// EntityTypeManualAsset is a manually tracked asset (e.g., a vehicle).
	EntityTypeManualAsset EntityType = "manual_asset"

	// EntityTypeManualLiability is a manually tracked liability (e.g., a loan).
	EntityTypeManualLiability EntityType = "manual_liability"

	// EntityTypeInvestmentAccount is a brokerage or retirement account.
	EntityTypeInvestmentAccount EntityType = "investment_account"
)

// FieldKind describes the plaintext type of a sensitive field. It determines
// the substitute value when decryption degrades: "" for text, 0 for numeric.
type FieldKind int

const (
	// FieldText is a free-form string field.
	FieldText FieldKind = iota
	// FieldNumeric is a numeric field serialized as a decimal string for encryption.
	FieldNumeric
)

// FieldSpec names one sensitive field of an entity type and its kind.
type FieldSpec struct {
	Name string
	Kind FieldKind
}

// sensitiveFields is the static schema mapping each entity type to the ordered
// set of fields that must be individually encrypted. Fields outside this set
// (ids, enums, dates, booleans) stay plaintext and are never touched by the codec.
var sensitiveFields = map[EntityType][]FieldSpec{
	EntityTypeAccount: {
		{Name: "name", Kind: FieldText},
		{Name: "institution", Kind: FieldText},
		{Name: "balance", Kind: FieldNumeric},
	},
	EntityTypeTransaction: {
		{Name: "description", Kind: FieldText},
		{Name: "notes", Kind: FieldText},
		{Name: "amount", Kind: FieldNumeric},
	},
	EntityTypeRecurringItem: {
		{Name: "name", Kind: FieldText},
		{Name: "amount", Kind: FieldNumeric},
	},
	EntityTypeSavingsGoal: {
		{Name: "name", Kind: FieldText},
		{Name: "target_amount", Kind: FieldNumeric},
		{Name: "current_amount", Kind: FieldNumeric},
	},
	EntityTypeManualAsset: {
		{Name: "name", Kind: FieldText},
		{Name: "notes", Kind: FieldText},
		{Name: "value", Kind: FieldNumeric},
	},
	EntityTypeManualLiability: {
		{Name: "name", Kind: FieldText},
		{Name: "notes", Kind: FieldText},
		{Name: "balance", Kind: FieldNumeric},
	},
	EntityTypeInvestmentAccount: {
		{Name: "name", Kind: FieldText},
		{Name: "institution", Kind: FieldText},
		{Name: "balance", Kind: FieldNumeric},
	},
}

// SensitiveFields returns the ordered sensitive-field schema for the given
// entity type. The second return value is false for types without a schema;
// callers treat that as "nothing to encrypt" (identity passthrough).
func SensitiveFields(t EntityType) ([]FieldSpec, bool) {
	fields, ok := sensitiveFields[t]
	return fields, ok
}

// ParseEntityType validates a raw string against the closed enumeration.
func ParseEntityType(s string) (EntityType, bool) {
	t := EntityType(s)
	if _, ok := sensitiveFields[t]; !ok {
		return "", false
	}
	return t, true
}

// EntityTypes returns all known entity types in stable order.
func EntityTypes() []EntityType {
	return []EntityType{
		EntityTypeAccount,
		EntityTypeTransaction,
		EntityTypeRecurringItem,
		EntityTypeSavingsGoal,
		EntityTypeManualAsset,
		EntityTypeManualLiability,
		EntityTypeInvestmentAccount,
	}
}
