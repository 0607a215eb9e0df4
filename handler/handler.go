package handler

import (
	"github.com/digimidich/fmp-query-ai/logging"
	"github.com/sirupsen/logrus"
)

var log *logrus.Logger

func init() {
	log = logging.GetLogger()
}
