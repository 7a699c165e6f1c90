package migration

import (
	"reflect"

	"github.com/crosslock-one/crosslock"
	"github.com/crosslock-one/crosslock/errors"
)

// Migratable is implemented by both messages and models that support schema
// versioning. Schema version is tracked via the metadata attribute.
type Migratable interface {
	GetMetadata() *crosslock.Metadata
	Validate() error
}

// Migrator is a function that migrates a data entity in place, from its
// current schema version to the next one.
type Migrator func(db crosslock.ReadOnlyKVStore, msgOrModel Migratable) error

// NoModification is a migration function that migrates data that requires no
// change. It should be used to register migrations that do not require any
// modifications.
func NoModification(db crosslock.ReadOnlyKVStore, msgOrModel Migratable) error {
	return nil
}

func newRegister() *register {
	return &register{
		migrations: make(map[payloadVersion]Migrator),
	}
}

type register struct {
	migrations map[payloadVersion]Migrator
}

// payloadVersion references a message or a model at a given schema version.
type payloadVersion struct {
	payload reflect.Type
	version uint32
}

func (r *register) MustRegister(migrationTo uint32, msgOrModel Migratable, fn Migrator) {
	if err := r.Register(migrationTo, msgOrModel, fn); err != nil {
		panic(err)
	}
}

func (r *register) Register(migrationTo uint32, msgOrModel Migratable, fn Migrator) error {
	if migrationTo == 0 {
		return errors.Wrap(errors.ErrInput, "zero version migration is not allowed")
	}
	tp := reflect.TypeOf(msgOrModel)
	for tp.Kind() == reflect.Ptr {
		tp = tp.Elem()
	}
	if tp.Kind() != reflect.Struct {
		return errors.Wrapf(errors.ErrInput, "only struct can be migrated, got %T", msgOrModel)
	}

	// Migrations must be registered in sequence, starting with one.
	if migrationTo > 1 {
		prev := payloadVersion{version: migrationTo - 1, payload: tp}
		if _, ok := r.migrations[prev]; !ok {
			return errors.Wrapf(errors.ErrInput, "missing %d version migration", migrationTo-1)
		}
	}

	pv := payloadVersion{
		version: migrationTo,
		payload: tp,
	}
	if _, ok := r.migrations[pv]; ok {
		return errors.Wrapf(errors.ErrDuplicate, "already registered: %s.%s:%d", tp.PkgPath(), tp.Name(), migrationTo)
	}
	r.migrations[pv] = fn
	return nil
}

// Apply updates the payload by applying all missing data migrations, up to
// the requested version. Even a no modification migration updates the
// metadata to point to the latest data format version.
//
// Because changes are applied directly on the passed payload, even if this
// function fails some of the data migrations might be applied.
//
// Validation method is called only on the final version of the payload.
func (r *register) Apply(db crosslock.ReadOnlyKVStore, msgOrModel Migratable, migrateTo uint32) error {
	if migrateTo == 0 {
		return errors.Wrap(errors.ErrInput, "zero version migration is not allowed")
	}
	tp := reflect.TypeOf(msgOrModel)
	for tp.Kind() == reflect.Ptr {
		tp = tp.Elem()
	}
	if tp.Kind() != reflect.Struct {
		return errors.Wrapf(errors.ErrInput, "only struct can be migrated, got %T", msgOrModel)
	}

	meta := msgOrModel.GetMetadata()
	if meta == nil {
		return errors.Wrapf(errors.ErrMetadata, "%T metadata is nil", msgOrModel)
	}
	if meta.Schema == 0 {
		return errors.Wrap(errors.ErrMetadata, "schema version cannot be zero")
	}

	for v := meta.Schema + 1; v <= migrateTo; v++ {
		migrate, ok := r.migrations[payloadVersion{payload: tp, version: v}]
		if !ok {
			return errors.Wrapf(errors.ErrSchema, "migration to version %d missing", v)
		}
		if err := migrate(db, msgOrModel); err != nil {
			return errors.Wrapf(err, "migration to version %d", v)
		}
		meta.Schema = v
	}

	if err := msgOrModel.Validate(); err != nil {
		return errors.Wrap(err, "validation")
	}
	return nil
}

// reg is a globally available register instance that must be used during the
// runtime to register migration handlers.
// Register is declared as a separate type so that it can be tested without
// worrying about the global state.
var reg = newRegister()

// MustRegister registers a migration function for a given message or model.
// Migrations must be registered in sequence, starting with version one.
func MustRegister(migrationTo uint32, msgOrModel Migratable, fn Migrator) {
	reg.MustRegister(migrationTo, msgOrModel, fn)
}
