/*
Package errors implements custom error interfaces for the escrow framework.

The idea is to reuse as many errors from this package as possible and define
custom package errors when absolutely necessary. Errors are registered with a
unique code so that they can be matched after crossing process boundaries and
reported to clients in a safe manner.

Create new error instances by wrapping one of the registered root errors:

	errors.Wrap(errors.ErrNotFound, "no such escrow")

Test for a category of failure using the root error:

	if errors.ErrNotFound.Is(err) { ... }
*/
package errors
