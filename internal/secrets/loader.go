package secrets

var (
	_ Loader   = (*DefaultLoader)(nil)
	_ Modifier = (*StoreConfig)(nil)
)

type Loader interface {
	Load(path string) (Modifier, error)
}

type Modifier interface {
	Get(name string) (ProviderSecret, bool)
	Upsert(secret ProviderSecret) (UpsertResult, error)
	Delete(name string) (UpsertResult, error)
	List() []ProviderSecret
}

type UpsertResult string

const (
	Created UpsertResult = "created"
	Updated UpsertResult = "updated"
	Deleted UpsertResult = "deleted"
	Noop    UpsertResult = "noop"
)
