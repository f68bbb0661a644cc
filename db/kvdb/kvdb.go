package kvdb

// SearchesBucket holds one record per search served by the API.
const SearchesBucket = "searches"

var buckets = []string{SearchesBucket}

type DB interface {
	Set(bucket string, key string, value string) error
	Get(bucket string, key string) (string, error)
	Delete(bucket string, key string) error
	GetAllKeys(bucket string) ([]string, error)
	Close() error
}
