/*
Package crosslock defines the common interfaces that tie together the
cross-chain escrow framework: key-value storage, transactions and
messages, handlers and decorators, conditions and addresses.

State transitions are expressed as messages wrapped in transactions.
A Handler processes a message in two phases, Check for cheap validation
and Deliver for the actual state change. Decorators wrap handlers to
provide shared functionality such as authentication, savepoints or
logging.

Authorization is modelled with Conditions. A Condition is a typed byte
string that hashes into a 20 byte Address. Ownership of funds and
permission to act on an escrow are both expressed as conditions, which
lets a hash preimage act as a first class participant next to
cryptographic signers.
*/
package crosslock
