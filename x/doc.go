/*
Package x holds some interfaces and helpers shared among the
extensions, but not necessarily in the core framework.

It also defines the Authenticator interface, which decouples the
handlers from whichever mechanism placed permissions in the context.
*/
package x
