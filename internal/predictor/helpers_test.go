package predictor

import (
	"io/ioutil"

	"github.com/sirupsen/logrus"
)

func testLogger() Logger {
	logger := logrus.New()
	logger.SetOutput(ioutil.Discard)

	return logger
}
