/*

Package aswap implements a flat order ledger for atomic swaps.

Unlike x/escrow there is no per-swap window schedule. Swap terms and the
revealed secret live directly in a single registry record. Funds are locked
into a per-order condition address on creation. An allow-listed resolver
marks the order completed by revealing the secret, which moves no funds, and
then claims the locked tokens in one or more steps. Claims are bounded by a
cumulative running total, so a resolver can never move more than the locked
amount. Once the timeout passed an uncompleted order can be refunded by its
depositor.

*/
package aswap
