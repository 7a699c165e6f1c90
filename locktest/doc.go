/*
Package locktest provides mock implementations and helpers shared by
package tests across the repository.
*/
package locktest
