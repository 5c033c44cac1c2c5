package i2c_test

import (
	"testing"

	periphtest "periph.io/x/conn/v3/i2c/i2ctest"

	"github.com/amaranth-community-unofficial/amlib/i2c"
)

func TestBusInitiatorWrite(t *testing.T) {
	bus := &periphtest.Playback{
		Ops: []periphtest.IO{
			{Addr: 0x42, W: []byte{0xde, 0xad}},
		},
		DontPanic: true,
	}
	ini := i2c.NewBusInitiator(bus)
	tx, err := i2c.NewStreamTransmitter(ini, i2c.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if !tx.PutFrame([]byte{0x42 << 1, 0xde, 0xad}) {
		t.Fatal("frame refused")
	}
	for i := 0; i < 10; i++ {
		tx.Tick()
	}
	if err := ini.Err(); err != nil {
		t.Fatal(err)
	}
	if err := bus.Close(); err != nil {
		t.Errorf("unconsumed playback ops: %v", err)
	}
}

func TestBusInitiatorWriteThenRead(t *testing.T) {
	bus := &periphtest.Playback{
		Ops: []periphtest.IO{
			{Addr: 0x50, W: []byte{0x10}, R: []byte{0xaa, 0xbb}},
		},
		DontPanic: true,
	}
	ini := i2c.NewBusInitiator(bus)

	// register read: write the register index, repeated start, read two
	ini.Tick(i2c.Command{Start: true})
	ini.Tick(i2c.Command{Write: true, Data: 0x50 << 1})
	ini.Tick(i2c.Command{Write: true, Data: 0x10})
	ini.Tick(i2c.Command{Start: true})
	ini.Tick(i2c.Command{Write: true, Data: 0x50<<1 | 1})
	ini.Tick(i2c.Command{Read: true})
	ini.Tick(i2c.Command{Read: true})
	ini.Tick(i2c.Command{Stop: true})

	if err := ini.Err(); err != nil {
		t.Fatal(err)
	}
	got := ini.ReadData()
	if len(got) != 2 || got[0] != 0xaa || got[1] != 0xbb {
		t.Errorf("read data %#v, want [0xaa 0xbb]", got)
	}
	if err := bus.Close(); err != nil {
		t.Errorf("unconsumed playback ops: %v", err)
	}
}

func TestBusInitiatorSequenceError(t *testing.T) {
	bus := &periphtest.Playback{DontPanic: true}
	ini := i2c.NewBusInitiator(bus)

	ini.Tick(i2c.Command{Write: true, Data: 0x00})
	if err := ini.Err(); err != i2c.ErrBusSequence {
		t.Errorf("write before start: err %v, want %v", err, i2c.ErrBusSequence)
	}
	if err := ini.Err(); err != nil {
		t.Errorf("error not cleared after read: %v", err)
	}

	// a read inside a write direction transaction cannot be expressed
	ini.Tick(i2c.Command{Start: true})
	ini.Tick(i2c.Command{Write: true, Data: 0x42 << 1})
	ini.Tick(i2c.Command{Read: true})
	ini.Tick(i2c.Command{Stop: true})
	if err := ini.Err(); err != i2c.ErrBusSequence {
		t.Errorf("read in write transaction: err %v, want %v", err, i2c.ErrBusSequence)
	}
}

func TestBusInitiatorNeverBusy(t *testing.T) {
	bus := &periphtest.Playback{DontPanic: true}
	ini := i2c.NewBusInitiator(bus)
	if ini.Busy() {
		t.Fatal("fresh initiator busy")
	}
	ini.Tick(i2c.Command{Start: true})
	if ini.Busy() {
		t.Fatal("initiator busy mid transaction")
	}
}
