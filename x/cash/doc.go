/*
Package cash defines a simple wallet implementation that keeps track of
coin balances per address and a controller that moves coins between
wallets. Other modules lock and release funds through the Controller
interface rather than touching wallets directly.
*/
package cash
