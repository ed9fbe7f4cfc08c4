package rng

var AcceptDevice = acceptDevice
