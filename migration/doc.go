/*
Package migration provides tooling necessary for working with schema
versioned entities. Functionality provided here can be applied both to
messages and models.

Global preparation.

1. update application genesis to provide "migration" configuration,

2. register migration message handlers using the RegisterRoutes function,

3. register migration bucket query using the RegisterQuery function.

Extension integration.

1. make sure every schema versioned entity declares a metadata attribute as
its first field. A nil metadata value is not valid,

2. register your migration functions in package init. Schema version is
declared per package not per entity so each upgrade must provide a migration
function for all entities. Use migration.NoModification for those entities
that require no change,

3. change your bucket implementation to embed migration.Bucket instead of
orm.Bucket,

4. wrap your handler with migration.SchemaMigratingHandler to ensure all
messages are always migrated to the latest schema before being passed to the
handler,

5. make sure the Metadata.Schema attribute of newly created messages is set.
This is not necessary for models as it will default to the current schema
version.
*/
package migration
