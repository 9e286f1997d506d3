// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package counter implements the Counter State: eighteen independent
// fixed-width integer slots and the accessors callable on them.
package counter

import "github.com/ava-labs/intvm/intn"

// NumSlots is the number of slots of every counter instance.
const NumSlots = 18

// Counter describes the slot layout of a counter instance. Slot ids are
// the field order and are part of the storage layout.
type Counter struct {
	Signed8   NativeSlot[intn.I8, int8]
	Signed16  NativeSlot[intn.I16, int16]
	Signed24  Slot[intn.I24]
	Signed32  NativeSlot[intn.I32, int32]
	Signed64  NativeSlot[intn.I64, int64]
	Signed128 NativeSlot[intn.I128, intn.Int128]
	Signed160 Slot[intn.I160]
	Signed200 Slot[intn.I200]
	Signed256 Slot[intn.I256]

	Unsigned8   NativeSlot[intn.U8, uint8]
	Unsigned16  NativeSlot[intn.U16, uint16]
	Unsigned24  Slot[intn.U24]
	Unsigned32  NativeSlot[intn.U32, uint32]
	Unsigned64  NativeSlot[intn.U64, uint64]
	Unsigned128 NativeSlot[intn.U128, intn.Uint128]
	Unsigned160 Slot[intn.U160]
	Unsigned200 Slot[intn.U200]
	Unsigned256 Slot[intn.U256]

	methods []*Method
	byName  map[string]*Method
}

// New returns the counter layout with its method table.
func New() *Counter {
	c := &Counter{
		Signed8:   newNativeSlot[intn.I8, int8](0, "signed8"),
		Signed16:  newNativeSlot[intn.I16, int16](1, "signed16"),
		Signed24:  newSlot[intn.I24](2, "signed24"),
		Signed32:  newNativeSlot[intn.I32, int32](3, "signed32"),
		Signed64:  newNativeSlot[intn.I64, int64](4, "signed64"),
		Signed128: newNativeSlot[intn.I128, intn.Int128](5, "signed128"),
		Signed160: newSlot[intn.I160](6, "signed160"),
		Signed200: newSlot[intn.I200](7, "signed200"),
		Signed256: newSlot[intn.I256](8, "signed256"),

		Unsigned8:   newNativeSlot[intn.U8, uint8](9, "unsigned8"),
		Unsigned16:  newNativeSlot[intn.U16, uint16](10, "unsigned16"),
		Unsigned24:  newSlot[intn.U24](11, "unsigned24"),
		Unsigned32:  newNativeSlot[intn.U32, uint32](12, "unsigned32"),
		Unsigned64:  newNativeSlot[intn.U64, uint64](13, "unsigned64"),
		Unsigned128: newNativeSlot[intn.U128, intn.Uint128](14, "unsigned128"),
		Unsigned160: newSlot[intn.U160](15, "unsigned160"),
		Unsigned200: newSlot[intn.U200](16, "unsigned200"),
		Unsigned256: newSlot[intn.U256](17, "unsigned256"),
	}

	groups := [][]*Method{
		nativeMethods(c.Signed8),
		nativeMethods(c.Signed16),
		slotMethods(c.Signed24),
		nativeMethods(c.Signed32),
		nativeMethods(c.Signed64),
		nativeMethods(c.Signed128),
		slotMethods(c.Signed160),
		slotMethods(c.Signed200),
		slotMethods(c.Signed256),

		nativeMethods(c.Unsigned8),
		nativeMethods(c.Unsigned16),
		slotMethods(c.Unsigned24),
		nativeMethods(c.Unsigned32),
		nativeMethods(c.Unsigned64),
		nativeMethods(c.Unsigned128),
		slotMethods(c.Unsigned160),
		slotMethods(c.Unsigned200),
		slotMethods(c.Unsigned256),
	}
	c.byName = make(map[string]*Method)
	for _, g := range groups {
		for _, m := range g {
			c.methods = append(c.methods, m)
			c.byName[m.Name] = m
		}
	}
	return c
}

// Methods returns every callable method in declaration order.
func (c *Counter) Methods() []*Method {
	return c.methods
}

// Method returns the method called [name].
func (c *Counter) Method(name string) (*Method, bool) {
	m, ok := c.byName[name]
	return m, ok
}
