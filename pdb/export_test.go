package pdb

var OldOrMmcif = oldOrMmcif

const (
	Old_fmt   = oldFmt
	Mmcif_fmt = mmcifFmt
)
