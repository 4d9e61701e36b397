package contract

// Storage layout. Each top-level registry lives under an explicit, stable key
// so a code upgrade never reinterprets existing bytes. Values are JSON.
const (
	accountPrefix = "account/"
	namePrefix    = "name/"
	salesKey      = "sales"
	adminKey      = "admin"
)

func accountKey(id AccountID) []byte {
	return []byte(accountPrefix + string(id))
}

func nameKey(name Username) []byte {
	return []byte(namePrefix + string(name))
}
