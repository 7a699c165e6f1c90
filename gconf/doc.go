/*
Package gconf implements a configuration store intended to be used as a
global, in-database configuration.

Each package stores its configuration under a single key, serialized using
the protobuf wire format. Configuration is initialized from the genesis and
can be updated at runtime via a patch message processed by the
UpdateConfigurationHandler.
*/
package gconf
