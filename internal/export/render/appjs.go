package render

import (
	"fmt"

	"git.home.luguber.info/inful/bentoforge/internal/sitemodel"
)

// RenderAppJS generates the small runtime for the static-html target:
// QR code rendering, rating stars and the analytics beacon. The page
// markup itself is pre-rendered into index.html.
func RenderAppJS(site *sitemodel.SiteData, opts Options) string {
	endpoint := ""
	if opts.IncludeAnalytics && site.Profile.AnalyticsEnabled() && site.Profile.Analytics != nil {
		endpoint = site.Profile.Analytics.Endpoint
	}

	return fmt.Sprintf(`(function () {
  'use strict';

  // QR blocks: render via image endpoint, wire up download buttons.
  document.querySelectorAll('.qr-canvas').forEach(function (el) {
    var content = el.getAttribute('data-qr-content');
    if (!content) return;
    var img = document.createElement('img');
    img.src = 'https://api.qrserver.com/v1/create-qr-code/?size=220x220&data=' + encodeURIComponent(content);
    img.alt = 'QR code';
    img.loading = 'lazy';
    el.appendChild(img);
    var download = el.parentElement && el.parentElement.querySelector('.qr-download');
    if (download) {
      download.addEventListener('click', function () {
        var a = document.createElement('a');
        a.href = img.src + '&download=1';
        a.download = 'qr-code.png';
        a.click();
      });
    }
  });

  // Custom-data charts: minimal bar rendering on canvas.
  document.querySelectorAll('canvas.chart-canvas[data-chart-values]').forEach(function (canvas) {
    var values = (canvas.getAttribute('data-chart-values') || '').split('|').map(Number).filter(function (n) { return !isNaN(n); });
    if (!values.length || !canvas.getContext) return;
    var ctx = canvas.getContext('2d');
    var max = Math.max.apply(null, values) || 1;
    var w = canvas.width = canvas.clientWidth || 300;
    var h = canvas.height = canvas.clientHeight || 150;
    var bar = w / values.length;
    ctx.fillStyle = '#6366f1';
    values.forEach(function (v, i) {
      var bh = (v / max) * (h - 8);
      ctx.fillRect(i * bar + 2, h - bh, bar - 4, bh);
    });
  });

  // View beacon.
  var endpoint = %q;
  if (endpoint) {
    try {
      fetch(endpoint, {
        method: 'POST',
        headers: { 'Content-Type': 'application/json' },
        body: JSON.stringify({ path: location.pathname, referrer: document.referrer }),
        keepalive: true
      }).catch(function () {});
    } catch (e) { /* beacon is best effort */ }
  }
})();
`, endpoint)
}
