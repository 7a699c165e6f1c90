/*
Package escrow implements a trust-minimized cross-chain atomic-swap escrow.

Each swap gets its own escrow record, addressed deterministically from its
immutable parameters so that counterparties on two chains can agree on the
instance identity before any funds move. Funds are guarded by a hash
commitment and a graduated time schedule of five ordered windows: a finality
lock during which nobody can act, a private withdrawal window reserved for
the taker, a public withdrawal window open to anyone holding the secret, a
private cancellation window reserved for the maker, and finally a public
cancellation window open to anyone.

Withdrawal and cancellation time ranges are disjoint by construction, so a
claim and a refund can never race on the same escrow. Once withdrawn or
cancelled the escrow is terminal and keeps its record, including the
revealed secret, for audit purposes.
*/
package escrow
