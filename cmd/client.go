package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"go.uber.org/zap"
)

type clientOpts struct {
	verbose bool // controls whether full Solr requests are logged
}

type clientContext struct {
	reqID       string             // internally generated
	start       time.Time          // internally set
	opts        clientOpts         // options set by client
	localizer   *i18n.Localizer    // per-request localization
	logger      *zap.SugaredLogger // carries the request id
	ginCtx      *gin.Context       // gin context
	acceptLang  string             // first language requested by client
	contentLang string             // actual language we are responding with
}

func boolOptionWithFallback(opt string, fallback bool) bool {
	var err error
	var val bool

	if val, err = strconv.ParseBool(opt); err != nil {
		val = fallback
	}

	return val
}

func (c *clientContext) init(p *poolContext, ctx *gin.Context) {
	c.ginCtx = ctx

	c.start = time.Now()
	c.reqID = uuid.New().String()
	c.logger = p.logger.Sugar().With("req_id", c.reqID)

	// explicit lang parameter wins over the browser's preference
	c.acceptLang = strings.TrimSpace(ctx.Query("lang"))
	if c.acceptLang == "" {
		c.acceptLang = strings.TrimSpace(strings.Split(ctx.GetHeader("Accept-Language"), ",")[0])
	}

	if c.acceptLang == "" {
		c.acceptLang = p.config.Service.DefaultLanguage
	}

	c.localizer = i18n.NewLocalizer(p.translations.bundle, c.acceptLang)

	// response language is whichever language actually carries a known message
	_, tag, _ := c.localizer.LocalizeWithTag(&i18n.LocalizeConfig{MessageID: msgFullText})
	c.contentLang = tag.String()

	ctx.Header("Content-Language", c.contentLang)

	c.opts.verbose = boolOptionWithFallback(ctx.Query("verbose"), false)
}

func (c *clientContext) logRequest() {
	c.log("------------------------------[ NEW REQUEST ]------------------------------")

	// the token is a credential; keep it out of the logs
	params := c.ginCtx.Request.URL.Query()
	if params.Has("token") == true {
		params.Set("token", "***")
	}

	query := ""
	if encoded := params.Encode(); encoded != "" {
		query = fmt.Sprintf("?%s", encoded)
	}

	c.log("[REQUEST] %s %s%s  (%s) => (%s)", c.ginCtx.Request.Method, c.ginCtx.Request.URL.Path, query, c.acceptLang, c.contentLang)
}

func (c *clientContext) logResponse(resp searchResponse) {
	msg := fmt.Sprintf("[RESPONSE] status: %d, elapsed: %d (ms)", resp.status, time.Since(c.start).Milliseconds())

	if resp.err != nil {
		msg = msg + fmt.Sprintf(", error: %s", resp.err.Error())
	}

	c.log(msg)
}

func (c *clientContext) log(format string, args ...interface{}) {
	c.logger.Infof(format, args...)
}

func (c *clientContext) debug(format string, args ...interface{}) {
	c.logger.Debugf(format, args...)
}

func (c *clientContext) err(format string, args ...interface{}) {
	c.logger.Errorf(format, args...)
}

func (c *clientContext) localize(id string) string {
	msg, err := c.localizer.Localize(&i18n.LocalizeConfig{MessageID: id})
	if err != nil {
		return id
	}

	return msg
}
