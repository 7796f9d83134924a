package redigo

const (
	CommandSetNX  = "SETNX"
	CommandGet    = "GET"
	CommandGetSet = "GETSET"
	CommandDel    = "DEL"
)
