package repository

// FindOption adjusts a Find call.
type FindOption func(*findOptions)

type findOptions struct {
	sortField string
	limit     int64
}

// WithSortAsc orders documents by field ascending. Documents lacking the
// field sort first, as MongoDB does; ties keep insertion order.
func WithSortAsc(field string) FindOption {
	return func(o *findOptions) {
		o.sortField = field
	}
}

// WithLimit caps the number of returned documents.
func WithLimit(n int64) FindOption {
	return func(o *findOptions) {
		if n > 0 {
			o.limit = n
		}
	}
}

func applyFind(opts []FindOption) findOptions {
	var o findOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Options selects and configures a backend for Open.
type Options struct {
	Driver        string
	MongoURI      string
	MongoDatabase string
	SQLitePath    string
}
