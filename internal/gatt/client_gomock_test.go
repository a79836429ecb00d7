package gatt_test

import (
	"errors"
	"testing"

	"go.uber.org/mock/gomock"
	"gotest.tools/assert"

	"github.com/chaz8081/gattlink/internal/gatt"
	"github.com/chaz8081/gattlink/internal/gatt/mock_gatt"
)

const (
	serviceUUID = "6e400001-b5a3-f393-e0a9-e50e24dcca9e"
	rxUUID      = "6e400002-b5a3-f393-e0a9-e50e24dcca9e"
	txUUID      = "6e400003-b5a3-f393-e0a9-e50e24dcca9e"
)

var device = gatt.Device{Name: "uart", Address: "C0:FF:EE:00:00:01"}

func uartService() (gatt.Service, gatt.Characteristic, gatt.Characteristic) {
	rx := gatt.Characteristic{UUID: rxUUID, ServiceUUID: serviceUUID, Properties: gatt.PropWrite | gatt.PropWriteNoResponse}
	tx := gatt.Characteristic{
		UUID:        txUUID,
		ServiceUUID: serviceUUID,
		Properties:  gatt.PropNotify,
		Descriptors: []gatt.Descriptor{{UUID: gatt.CCCDUUID, CharacteristicUUID: txUUID}},
	}
	return gatt.Service{UUID: serviceUUID, Characteristics: []gatt.Characteristic{rx, tx}}, rx, tx
}

func uartConfig() gatt.RoleConfig {
	cfg := gatt.DefaultRoleConfig()
	cfg.ServiceUUID = serviceUUID
	cfg.InfoWriteUUID = rxUUID
	cfg.InfoReadUUID = txUUID
	return cfg
}

// expectConnect captures the event handler passed to Connect.
func expectConnect(tr *mock_gatt.MockTransport, h gatt.Handle, events *gatt.EventHandler) *gomock.Call {
	return tr.EXPECT().Connect(device, true, gomock.Any()).DoAndReturn(
		func(_ gatt.Device, _ bool, fn gatt.EventHandler) (gatt.Handle, error) {
			*events = fn
			return h, nil
		})
}

func TestClientCommandSequence(t *testing.T) {
	ctrl := gomock.NewController(t)
	tr := mock_gatt.NewMockTransport(ctrl)
	h := mock_gatt.NewMockHandle(ctrl)
	svc, rx, tx := uartService()
	var events gatt.EventHandler

	gomock.InOrder(
		expectConnect(tr, h, &events),
		tr.EXPECT().DiscoverServices(h).Return(nil),
		tr.EXPECT().SetNotify(h, tx, true).Return(true),
		tr.EXPECT().WriteDescriptor(h, tx.Descriptors[0], gatt.EnableNotificationValue).Return(nil),
		tr.EXPECT().WriteCharacteristic(h, rx, []byte("hi")).Return(true),
		tr.EXPECT().SetNotify(h, tx, false).Return(true),
		tr.EXPECT().Disconnect(h).Return(nil),
		tr.EXPECT().Close(h).Return(nil),
	)

	c, err := gatt.NewClient(tr, uartConfig())
	assert.NilError(t, err)

	assert.NilError(t, c.Connect(device))
	events(h, gatt.ConnectionStateChanged{State: gatt.LinkConnected})
	events(h, gatt.ServicesDiscovered{Status: gatt.StatusSuccess, Services: []gatt.Service{svc}})
	assert.Equal(t, c.State(), gatt.StateServicesDiscovered)

	assert.NilError(t, c.Write([]byte("hi")))
	assert.NilError(t, c.Close())
	assert.Equal(t, c.State(), gatt.StateNone)
}

func TestClientDescriptorWriteFailureReported(t *testing.T) {
	ctrl := gomock.NewController(t)
	tr := mock_gatt.NewMockTransport(ctrl)
	h := mock_gatt.NewMockHandle(ctrl)
	svc, _, tx := uartService()
	var events gatt.EventHandler
	failure := errors.New("att: write not permitted")

	expectConnect(tr, h, &events)
	tr.EXPECT().DiscoverServices(h).Return(nil)
	tr.EXPECT().SetNotify(h, tx, true).Return(true)
	tr.EXPECT().WriteDescriptor(h, gomock.Any(), gomock.Any()).Return(failure)

	l := &errorListener{}
	c, err := gatt.NewClient(tr, uartConfig(), gatt.WithListener(l))
	assert.NilError(t, err)

	assert.NilError(t, c.Connect(device))
	events(h, gatt.ConnectionStateChanged{State: gatt.LinkConnected})
	events(h, gatt.ServicesDiscovered{Status: gatt.StatusSuccess, Services: []gatt.Service{svc}})

	assert.Equal(t, len(l.errs), 1)
	assert.Assert(t, errors.Is(l.errs[0], failure))
}

func TestClientBondSkipsBondedDevice(t *testing.T) {
	ctrl := gomock.NewController(t)
	tr := mock_gatt.NewMockTransport(ctrl)
	h := mock_gatt.NewMockHandle(ctrl)
	var events gatt.EventHandler

	expectConnect(tr, h, &events)
	tr.EXPECT().BondState(h).Return(gatt.BondBonded)

	c, err := gatt.NewClient(tr, gatt.DefaultRoleConfig())
	assert.NilError(t, err)
	assert.NilError(t, c.Connect(device))
	assert.NilError(t, c.Bond())
}

func TestClientBondCreatesBond(t *testing.T) {
	ctrl := gomock.NewController(t)
	tr := mock_gatt.NewMockTransport(ctrl)
	h := mock_gatt.NewMockHandle(ctrl)
	var events gatt.EventHandler

	expectConnect(tr, h, &events)
	gomock.InOrder(
		tr.EXPECT().BondState(h).Return(gatt.BondNone),
		tr.EXPECT().CreateBond(h).Return(nil),
	)

	c, err := gatt.NewClient(tr, gatt.DefaultRoleConfig())
	assert.NilError(t, err)
	assert.NilError(t, c.Connect(device))
	assert.NilError(t, c.Bond())
}

type unbondingMock struct {
	*mock_gatt.MockTransport
	*mock_gatt.MockUnbonder
}

func TestClientUnbondDelegates(t *testing.T) {
	ctrl := gomock.NewController(t)
	tr := unbondingMock{mock_gatt.NewMockTransport(ctrl), mock_gatt.NewMockUnbonder(ctrl)}
	tr.MockUnbonder.EXPECT().RemoveBond(device).Return(nil)

	c, err := gatt.NewClient(tr, gatt.DefaultRoleConfig())
	assert.NilError(t, err)
	assert.NilError(t, c.UnbondDevice(device))
}

func TestClientUnbondWithoutCapability(t *testing.T) {
	ctrl := gomock.NewController(t)
	tr := mock_gatt.NewMockTransport(ctrl)

	c, err := gatt.NewClient(tr, gatt.DefaultRoleConfig())
	assert.NilError(t, err)
	err = c.UnbondDevice(device)
	assert.Assert(t, errors.Is(err, gatt.ErrPrivilegedOperationUnsupported))
}

type errorListener struct {
	gatt.BaseListener
	errs []error
}

func (l *errorListener) OnError(err error) { l.errs = append(l.errs, err) }
