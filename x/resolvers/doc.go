/*
Package resolvers maintains the allow list of addresses that are permitted
to drive the swap flows. The list is stored as a single owned configuration
entity. Only the owner can authorize or deauthorize resolvers.

Other packages consume the list through the Checker interface and must not
depend on how it is stored.
*/
package resolvers
